// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/satext/satext/internal/config"
)

// DefaultSQLitePath is used when DB.Path is empty.
const DefaultSQLitePath = "satext.db"

// Create builds the Data Source Name for the configured gorm engine.
func Create(db config.DB) string {
	switch db.GormEngine {
	case config.EnginePostgres:
		return strings.TrimSpace(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
			db.Extras,
		))
	case config.EngineSQLite:
		if db.Path == "" {
			return DefaultSQLitePath
		}

		return db.Path
	default:
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
		)

		if db.Extras != "" {
			out += "?" + db.Extras
		}

		return out
	}
}
