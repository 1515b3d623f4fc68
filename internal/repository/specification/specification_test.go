package specification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=library dbname=library sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true, DryRun: true})
	require.NoError(t, err)
	return db
}

func TestUnreadNotificationsOfOwner(t *testing.T) {
	db := dryRunDB(t)
	owner := uuid.MustParse("5b8f3c1e-2a4d-4e6f-9a1b-3c5d7e9f1a2b")

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var count int64
		q := tx.Table("notifications")
		for _, spec := range []Specification{UserOwnedBy{UserID: owner}, Unread{}} {
			q = spec.Apply(q)
		}
		return q.Count(&count)
	})

	assert.Contains(t, sql, "user_id = '"+owner.String()+"'")
	assert.Contains(t, sql, "is_read = false")
}

func TestByEmailLowercases(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []map[string]interface{}
		return ByEmail{Email: "  Ada@Library.ORG "}.Apply(tx.Table("users")).Find(&rows)
	})

	assert.Contains(t, sql, "email = 'ada@library.org'")
}
