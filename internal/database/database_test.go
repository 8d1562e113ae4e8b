package database

import (
	"testing"

	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db
}

func TestMigrateSeedsRoles(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	var roles []models.Role
	require.NoError(t, db.Find(&roles).Error)
	assert.Len(t, roles, len(models.AllRoleNames()))

	// running again is a no-op
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Find(&roles).Error)
	assert.Len(t, roles, len(models.AllRoleNames()))
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	for _, table := range []string{
		"users", "roles", "posts", "invitations",
		"messages", "friend_edges", "subscriptions",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
