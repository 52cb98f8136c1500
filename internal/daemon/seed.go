package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/phone"
)

// seed upserts the configured divisions and corps. Rows are matched by id,
// so running it again renames or renumbers but never duplicates.
func seed(cfg *config.Config, db *gorm.DB) error {
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range cfg.Seed.Division {
			division := models.Division{ID: d.ID, Name: d.Name}
			if err := tx.Clauses(upsert).Create(&division).Error; err != nil {
				return err
			}

			for _, c := range d.Corps {
				number, err := phone.Normalize(c.Phone, cfg.Gateway.Region)
				if err != nil {
					return fmt.Errorf("corps %d phone: %w", c.ID, err)
				}

				corps := models.Corps{
					ID:         c.ID,
					Name:       c.Name,
					DivisionID: d.ID,
					Phone:      number,
				}
				if err := tx.Clauses(upsert).Create(&corps).Error; err != nil {
					return err
				}
			}

			log.Info().Uint("division", d.ID).Int("corps", len(d.Corps)).Msg("seeded division")
		}

		return nil
	})
}
