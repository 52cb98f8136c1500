// Package group provides the directory store accessors for distribution groups.
package group

import (
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/phone"
)

// ByCorps lists the active groups of a corps by name.
func ByCorps(db *gorm.DB, corpsID uint) ([]models.Group, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.Group

	err := db.Where("corps_id = ? AND active = ?", corpsID, true).
		Order("name, id").
		Find(&out).Error
	if err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// GetActive returns the group if it is active and belongs to corpsID.
func GetActive(db *gorm.DB, id, corpsID uint) (*models.Group, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var g models.Group

	err := db.Where("id = ? AND corps_id = ? AND active = ?", id, corpsID, true).First(&g).Error
	if err != nil {
		return nil, dberr.Classify(err)
	}

	return &g, nil
}

// Add creates an active group in a corps.
func Add(db *gorm.DB, name string, corpsID uint) (*models.Group, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	g := models.Group{Name: name, CorpsID: corpsID, Active: true}
	if err := db.Create(&g).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return &g, nil
}

// Retire soft deletes an active group of corpsID. Memberships and delivery
// log rows stay in place.
func Retire(db *gorm.DB, id, corpsID uint) error {
	if db == nil {
		return dberr.ErrDBNil
	}

	res := db.Model(&models.Group{}).
		Where("id = ? AND corps_id = ? AND active = ?", id, corpsID, true).
		Update("active", false)
	if res.Error != nil {
		return dberr.Classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Recipients returns the members of a group in store order. Phones are
// returned in E.164 form.
func Recipients(db *gorm.DB, groupID uint) ([]models.RosterEntry, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.RosterEntry

	err := db.Table("recipients").
		Select("recipients.id AS recipient_id, recipients.name, recipients.phone").
		Joins("JOIN recipient_groups ON recipient_groups.recipient_id = recipients.id").
		Where("recipient_groups.group_id = ?", groupID).
		Order("recipients.id").
		Scan(&out).Error
	if err != nil {
		return nil, dberr.Classify(err)
	}

	for i := range out {
		out[i].Phone = phone.E164(out[i].Phone)
	}

	return out, nil
}
