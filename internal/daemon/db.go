package daemon

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/dsn"
	"github.com/satext/satext/internal/db/models"
)

const (
	sessionTable      = "sessions"
	sessionGCInterval = 10 * time.Minute
)

// OpenDB opens the configured database.
func OpenDB(cfg config.DB, devMode bool) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.GormEngine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	logLevel := gormlogger.Silent
	if devMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.GormEngine)
	}

	if cfg.GormEngine == config.EngineSQLite {
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, errDB
		}

		// sqlite allows one writer
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the schema and provisions the seeded divisions and corps.
func Migrate(cfg *config.Config, db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return seed(cfg, db)
}

// newSessionStorage keeps sessions in the application database. SQLite
// deployments use fiber's in-memory storage.
func newSessionStorage(cfg config.DB) fiber.Storage {
	switch cfg.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Username:   cfg.User,
			Password:   cfg.Password,
			Database:   cfg.Name,
			Table:      sessionTable,
			GCInterval: sessionGCInterval,
		})
	case config.EngineSQLite:
		return nil
	default:
		return sessionmysql.New(sessionmysql.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Username:   cfg.User,
			Password:   cfg.Password,
			Database:   cfg.Name,
			Table:      sessionTable,
			GCInterval: sessionGCInterval,
		})
	}
}
