package circulation

import "strings"

// NormalizeISBN strips separators and upper-cases a trailing X. It reports
// false when the result is not a valid ISBN-10 (mod 11) or ISBN-13 (mod 10).
func NormalizeISBN(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '-' || r == ' ':
			continue
		case r == 'x':
			r = 'X'
		}
		b.WriteRune(r)
	}
	isbn := b.String()

	sum := 0
	switch len(isbn) {
	case 10:
		for i, r := range isbn {
			var v int
			switch {
			case r >= '0' && r <= '9':
				v = int(r - '0')
			case r == 'X' && i == 9:
				v = 10
			default:
				return "", false
			}
			sum += v * (10 - i)
		}
		if sum%11 != 0 {
			return "", false
		}
	case 13:
		for i, r := range isbn {
			if r < '0' || r > '9' {
				return "", false
			}
			v := int(r - '0')
			if i%2 == 1 {
				v *= 3
			}
			sum += v
		}
		if sum%10 != 0 {
			return "", false
		}
	default:
		return "", false
	}
	return isbn, true
}
