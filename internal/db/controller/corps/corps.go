// Package corps provides read access to the seeded divisions and corps.
package corps

import (
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/models"
)

// Divisions lists the divisions by name. The reserved division 0 is never listed.
func Divisions(db *gorm.DB) ([]models.Division, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.Division
	if err := db.Where("id <> ?", 0).Order("name").Find(&out).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// ByDivision lists the corps of a division by name.
func ByDivision(db *gorm.DB, divisionID uint) ([]models.Corps, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.Corps
	if err := db.Where("division_id = ?", divisionID).Order("name").Find(&out).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// Get returns a corps with its division.
func Get(db *gorm.DB, id uint) (*models.Corps, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var c models.Corps
	if err := db.Preload("Division").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return &c, nil
}
