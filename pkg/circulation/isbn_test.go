package circulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISBN(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"978-0-13-468599-1", "9780134685991", true},
		{" 0 306 40615 2 ", "0306406152", true},
		{"080442957x", "080442957X", true},
		{"08044X9570", "", false},
		{"97801346859", "", false},
		{"978013468599A", "", false},
		{"9780134685990", "", false},
		{"0306406153", "", false},
		{"0-201-48567-2", "0201485672", true},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeISBN(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
