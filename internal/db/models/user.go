package models

import "time"

// User is a login identity. Rows are created on the first verified sign in
// and start unlinked and unapproved.
type User struct {
	// ID is the external identity token (the OIDC subject).
	ID string `gorm:"primaryKey;size:255"`
	// Name is the display name reported by the identity provider.
	Name string `gorm:"size:255"`
	// Email is the verified email address.
	Email string `gorm:"size:255;index"`
	// Phone is the user's own number in national form, used for system notices.
	Phone string `gorm:"size:20"`
	// ProfilePic is the avatar url reported by the identity provider.
	ProfilePic string `gorm:"size:512"`
	// CorpsID is nil until the user selected a corps.
	CorpsID *uint `gorm:"index"`
	// Corps is the linked corps.
	Corps *Corps `gorm:"foreignKey:CorpsID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// IsAdmin grants access to the approval queue.
	IsAdmin bool `gorm:"not null;default:false"`
	// IsApproved gates the send and manage capabilities.
	IsApproved bool `gorm:"not null;default:false"`
	// ApprovalRequested is set once the admins were notified about this user.
	ApprovalRequested bool `gorm:"not null;default:false"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Linked reports whether the user selected a corps.
func (u *User) Linked() bool {
	return u.CorpsID != nil && *u.CorpsID != 0
}
