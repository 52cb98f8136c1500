package models

// Division is the top level grouping of corps. The row with id 0 is reserved
// and never listed.
type Division struct {
	// ID is the unique identifier of the division.
	ID uint `gorm:"primaryKey;autoIncrement:false"`
	// Name is the display name of the division.
	Name string `gorm:"size:100;not null"`
}

// TableName specifies the database table name for the Division model.
func (Division) TableName() string {
	return "divisions"
}
