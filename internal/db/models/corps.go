package models

// Corps is an organizational unit. It owns the outbound sender number used
// for every text sent on behalf of its members.
type Corps struct {
	// ID is the unique identifier of the corps.
	ID uint `gorm:"primaryKey;autoIncrement:false"`
	// Name is the display name of the corps.
	Name string `gorm:"size:100;not null"`
	// DivisionID is the division the corps belongs to.
	DivisionID uint `gorm:"not null;index"`
	// Division is the associated division.
	Division *Division `gorm:"foreignKey:DivisionID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// Phone is the outbound sender number in E.164 form.
	Phone string `gorm:"size:20"`
}

// TableName specifies the database table name for the Corps model.
func (Corps) TableName() string {
	return "corps"
}
