// Package recipient provides the directory store accessors for recipients
// and their group memberships.
package recipient

import (
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/models"
)

// Create inserts a recipient and returns its id. phone must be in national form.
func Create(db *gorm.DB, name, phone string, corpsID uint) (uint, error) {
	if db == nil {
		return 0, dberr.ErrDBNil
	}

	r := models.Recipient{Name: name, Phone: phone, CorpsID: corpsID}
	if err := db.Create(&r).Error; err != nil {
		return 0, dberr.Classify(err)
	}

	return r.ID, nil
}

// Get returns the recipient if it belongs to corpsID.
func Get(db *gorm.DB, id, corpsID uint) (*models.Recipient, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var r models.Recipient
	if err := db.Where("id = ? AND corps_id = ?", id, corpsID).First(&r).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return &r, nil
}

// ByCorps lists the recipients of a corps by name.
func ByCorps(db *gorm.DB, corpsID uint) ([]models.Recipient, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.Recipient
	if err := db.Where("corps_id = ?", corpsID).Order("name, id").Find(&out).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// Update overwrites name and phone of a recipient.
func Update(db *gorm.DB, id uint, name, phone string) error {
	if db == nil {
		return dberr.ErrDBNil
	}

	res := db.Model(&models.Recipient{ID: id}).Updates(map[string]any{
		"name":  name,
		"phone": phone,
	})
	if res.Error != nil {
		return dberr.Classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// ClearGroups removes every group membership of the recipient.
func ClearGroups(db *gorm.DB, recipientID uint) error {
	if db == nil {
		return dberr.ErrDBNil
	}

	err := db.Where("recipient_id = ?", recipientID).Delete(&models.RecipientGroup{}).Error

	return dberr.Classify(err)
}

// AssignGroup adds the recipient to a group.
func AssignGroup(db *gorm.DB, recipientID, groupID uint) error {
	if db == nil {
		return dberr.ErrDBNil
	}

	err := db.Create(&models.RecipientGroup{RecipientID: recipientID, GroupID: groupID}).Error

	return dberr.Classify(err)
}

// GroupIDs returns the ids of the groups the recipient belongs to.
func GroupIDs(db *gorm.DB, recipientID uint) ([]uint, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []uint

	err := db.Model(&models.RecipientGroup{}).
		Where("recipient_id = ?", recipientID).
		Order("group_id").
		Pluck("group_id", &out).Error
	if err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}
