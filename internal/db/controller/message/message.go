// Package message provides the append-only delivery log.
package message

import (
	"time"

	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/models"
)

// Entry is a delivery log row joined with display names for the history page.
type Entry struct {
	ID               uint64
	GatewayMessageID string
	SenderID         string
	SenderName       string
	RecipientName    string
	GroupName        string
	Body             string
	CreatedAt        time.Time
}

// Add appends one row to the delivery log.
func Add(db *gorm.DB, m models.Message) (*models.Message, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	m.ID = 0
	if err := db.Create(&m).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return &m, nil
}

// ByGroup returns every row logged for a group, including retired groups.
func ByGroup(db *gorm.DB, groupID uint) ([]models.Message, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.Message
	if err := db.Where("group_id = ?", groupID).Order("id").Find(&out).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// RecentByCorps returns the newest group sends of a corps, newest first.
func RecentByCorps(db *gorm.DB, corpsID uint, limit int) ([]Entry, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []Entry

	err := db.Table("messages").
		Select("messages.id, messages.gateway_message_id, messages.sender_id, " +
			"users.name AS sender_name, recipients.name AS recipient_name, " +
			"distribution_groups.name AS group_name, messages.body, messages.created_at").
		Joins("JOIN distribution_groups ON distribution_groups.id = messages.group_id").
		Joins("LEFT JOIN users ON users.id = messages.sender_id").
		Joins("LEFT JOIN recipients ON recipients.id = messages.recipient_id").
		Where("distribution_groups.corps_id = ?", corpsID).
		Order("messages.id DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}
