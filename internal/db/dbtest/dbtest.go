// Package dbtest opens migrated in-memory databases for package tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/satext/satext/internal/db/models"
)

// Fixture ids created by Seed.
const (
	DivisionID = 1
	CorpsX     = 1
	CorpsY     = 2

	CorpsXPhone = "+15005550006"
	CorpsYPhone = "+15005550007"
)

// New creates a migrated in-memory SQLite database.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// every connection would get its own in-memory database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

// Seed creates one division with the corps CorpsX and CorpsY.
func Seed(t *testing.T, db *gorm.DB) {
	t.Helper()

	Create(t, db,
		&models.Division{ID: DivisionID, Name: "Central"},
		&models.Corps{ID: CorpsX, Name: "Downtown Corps", DivisionID: DivisionID, Phone: CorpsXPhone},
		&models.Corps{ID: CorpsY, Name: "Northside Corps", DivisionID: DivisionID, Phone: CorpsYPhone},
	)
}

// Create inserts every value or fails the test.
func Create(t *testing.T, db *gorm.DB, values ...any) {
	t.Helper()

	for _, v := range values {
		require.NoError(t, db.Create(v).Error, "failed to seed test data")
	}
}

// Group creates an active group in corps and adds the recipients to it.
func Group(t *testing.T, db *gorm.DB, corpsID uint, name string, members ...*models.Recipient) *models.Group {
	t.Helper()

	g := &models.Group{Name: name, CorpsID: corpsID, Active: true}
	Create(t, db, g)

	for _, r := range members {
		if r.ID == 0 {
			r.CorpsID = corpsID
			Create(t, db, r)
		}

		Create(t, db, &models.RecipientGroup{RecipientID: r.ID, GroupID: g.ID})
	}

	return g
}

// User creates a user linked to corpsID, or unlinked when corpsID is 0.
func User(t *testing.T, db *gorm.DB, id string, corpsID uint, approved, admin bool) *models.User {
	t.Helper()

	u := &models.User{ID: id, Name: id, Email: id + "@example.com"}
	if corpsID != 0 {
		u.CorpsID = &corpsID
	}

	Create(t, db, u)

	// zero values are skipped on create because of the column defaults
	require.NoError(t, db.Model(u).Updates(map[string]any{
		"is_approved": approved,
		"is_admin":    admin,
	}).Error)

	u.IsApproved = approved
	u.IsAdmin = admin

	return u
}
