package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/satext/satext/internal/daemon"
	"github.com/satext/satext/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(initDBCmd)
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or update the schema and provision the configured divisions and corps",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		defer logger.Close()

		db, err := daemon.OpenDB(cfg.DB, cfg.DevMode)
		if err != nil {
			return err
		}

		if err = daemon.Migrate(cfg, db); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database is ready")

		return nil
	},
}
