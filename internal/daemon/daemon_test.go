package daemon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/phone"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Path:       filepath.Join(t.TempDir(), "satext.db"),
		},
		Seed: config.Seed{Division: []config.SeedDivision{{
			ID:   1,
			Name: "Central",
			Corps: []config.SeedCorps{
				{ID: 1, Name: "Downtown Corps", Phone: "(500) 555-0006"},
				{ID: 2, Name: "Northside Corps", Phone: "+15005550007"},
			},
		}}},
	}
}

func TestMigrateSeedsOnce(t *testing.T) {
	cfg := sqliteConfig(t)

	db, err := OpenDB(cfg.DB, false)
	require.NoError(t, err)

	require.NoError(t, Migrate(cfg, db))

	cfg.Seed.Division[0].Corps[1].Name = "Northside Citadel"
	require.NoError(t, Migrate(cfg, db))

	var corps []models.Corps
	require.NoError(t, db.Order("id").Find(&corps).Error)
	require.Len(t, corps, 2)
	assert.Equal(t, "+15005550006", corps[0].Phone)
	assert.Equal(t, "Northside Citadel", corps[1].Name)

	var divisions int64
	require.NoError(t, db.Model(&models.Division{}).Count(&divisions).Error)
	assert.Equal(t, int64(1), divisions)
}

func TestSeedRejectsNumberOutsideRegion(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Seed.Division[0].Corps[0].Phone = "020 7183 8750"

	db, err := OpenDB(cfg.DB, false)
	require.NoError(t, err)

	err = Migrate(cfg, db)
	require.ErrorIs(t, err, phone.ErrInvalid)

	var count int64
	require.NoError(t, db.Model(&models.Corps{}).Count(&count).Error)
	assert.Zero(t, count)

	cfg.Gateway.Region = "GB"
	require.NoError(t, Migrate(cfg, db))

	var corps models.Corps
	require.NoError(t, db.First(&corps, 1).Error)
	assert.Equal(t, "+442071838750", corps.Phone)
}

func TestNewSessionStorageForSQLite(t *testing.T) {
	assert.Nil(t, newSessionStorage(config.DB{GormEngine: config.EngineSQLite}))
}
