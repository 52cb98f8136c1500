package models

import "time"

// Recipient is a message destination. It is not a login identity.
type Recipient struct {
	ID uint `gorm:"primaryKey"`
	// Name is the display name used in dispatch summaries.
	Name string `gorm:"size:255;not null"`
	// Phone is stored in national form, without the +1 country prefix.
	Phone string `gorm:"size:20;not null"`
	// CorpsID scopes the recipient to one corps.
	CorpsID   uint   `gorm:"not null;index"`
	Corps     *Corps `gorm:"foreignKey:CorpsID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Recipient model.
func (Recipient) TableName() string {
	return "recipients"
}
