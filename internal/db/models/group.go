package models

import "time"

// Group is a corps scoped distribution list. Groups are retired by clearing
// Active, never deleted, so delivery log rows keep a valid group id.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null"`
	// CorpsID scopes the group to one corps.
	CorpsID uint   `gorm:"not null;index"`
	Corps   *Corps `gorm:"foreignKey:CorpsID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// Active is false once the group was retired.
	Active    bool `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// "groups" is a reserved word on mysql 8.
func (Group) TableName() string {
	return "distribution_groups"
}

// RecipientGroup is the membership link between a recipient and a group.
type RecipientGroup struct {
	RecipientID uint `gorm:"primaryKey;autoIncrement:false"`
	GroupID     uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName specifies the database table name for the RecipientGroup model.
func (RecipientGroup) TableName() string {
	return "recipient_groups"
}

// RosterEntry is one resolved destination of a group. Phone is in E.164 form.
type RosterEntry struct {
	RecipientID uint
	Name        string
	Phone       string
}
