package models

import "time"

// Message is one row of the append-only delivery log. A row is only written
// for a send the gateway accepted.
type Message struct {
	ID uint64 `gorm:"primaryKey"`
	// GatewayMessageID is the identifier the gateway returned for the send.
	GatewayMessageID string `gorm:"size:64;not null;index"`
	// SenderID is the sending user id, or SYSTEM / WELCOME for system sends.
	SenderID string `gorm:"size:255;not null;index"`
	// RecipientID is 0 for notices sent to users instead of recipients.
	RecipientID uint `gorm:"not null;index"`
	// GroupID is 0 for system sends.
	GroupID   uint   `gorm:"not null;index"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the Message model.
func (Message) TableName() string {
	return "messages"
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Division{},
		&Corps{},
		&User{},
		&Recipient{},
		&Group{},
		&RecipientGroup{},
		&Message{},
	}
}
