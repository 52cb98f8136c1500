// Package user provides the directory store accessors for login identities.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/models"
)

const idQueryPattern = "id = ?"

var (
	// ErrAlreadyApproved is returned by Approve for a user that is approved already.
	ErrAlreadyApproved = errors.New("user is already approved")
	// ErrNotLinked is returned by Approve for a user that has not chosen a corps.
	ErrNotLinked = errors.New("user is not linked to a corps")
)

// Pending is a user waiting for approval, joined with the names of its corps and division.
type Pending struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	CorpsName    string
	DivisionName string
}

// Get returns the user with the given id and its linked corps. It returns
// nil and no error when the user does not exist.
func Get(db *gorm.DB, id string) (*models.User, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var u models.User

	err := db.Preload("Corps").Where(idQueryPattern, id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // absent is not an error
	}

	if err != nil {
		return nil, dberr.Classify(err)
	}

	return &u, nil
}

// Create inserts a new user. It fails with dberr.ErrConflict when the id exists.
func Create(db *gorm.DB, u models.User) (*models.User, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var count int64
	if err := db.Model(&models.User{}).Where(idQueryPattern, u.ID).Count(&count).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	if count > 0 {
		return nil, dberr.ErrConflict
	}

	u.CorpsID = nil
	u.IsApproved = false
	u.ApprovalRequested = false

	if err := db.Create(&u).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return &u, nil
}

// LinkCorps links the user to a corps and returns the corps name.
func LinkCorps(db *gorm.DB, userID string, corpsID uint) (string, error) {
	if db == nil {
		return "", dberr.ErrDBNil
	}

	var c models.Corps
	if err := db.Where(idQueryPattern, corpsID).First(&c).Error; err != nil {
		return "", dberr.Classify(err)
	}

	res := db.Model(&models.User{}).Where(idQueryPattern, userID).Update("corps_id", c.ID)
	if res.Error != nil {
		return "", dberr.Classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return "", dberr.ErrNotFound
	}

	return c.Name, nil
}

// Approve moves a linked, unapproved user to approved and returns the updated
// row. A user that is already approved or not linked to a corps is left as is.
func Approve(db *gorm.DB, userID string) (*models.User, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	res := db.Model(&models.User{}).
		Where("id = ? AND is_approved = ? AND corps_id IS NOT NULL", userID, false).
		Update("is_approved", true)
	if res.Error != nil {
		return nil, dberr.Classify(res.Error)
	}

	u, err := Get(db, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case u == nil:
		return nil, dberr.ErrNotFound
	case res.RowsAffected == 1:
		return u, nil
	case u.IsApproved:
		return nil, ErrAlreadyApproved
	default:
		return nil, ErrNotLinked
	}
}

// MarkApprovalRequested sets the approval requested flag. It reports true
// only for the call that actually flipped it.
func MarkApprovalRequested(db *gorm.DB, userID string) (bool, error) {
	if db == nil {
		return false, dberr.ErrDBNil
	}

	res := db.Model(&models.User{}).
		Where("id = ? AND approval_requested = ?", userID, false).
		Update("approval_requested", true)
	if res.Error != nil {
		return false, dberr.Classify(res.Error)
	}

	return res.RowsAffected == 1, nil
}

// Unapproved returns the linked users that wait for approval, oldest first.
func Unapproved(db *gorm.DB) ([]Pending, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []Pending

	err := db.Table("users").
		Select("users.id, users.name, users.email, users.phone, " +
			"corps.name AS corps_name, divisions.name AS division_name").
		Joins("JOIN corps ON corps.id = users.corps_id").
		Joins("JOIN divisions ON divisions.id = corps.division_id").
		Where("users.is_approved = ?", false).
		Order("users.created_at, users.id").
		Scan(&out).Error
	if err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// Admins returns all admin users.
func Admins(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, dberr.ErrDBNil
	}

	var out []models.User
	if err := db.Where("is_admin = ?", true).Order("id").Find(&out).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	return out, nil
}

// UpdatePhone stores the user's own number in national form.
func UpdatePhone(db *gorm.DB, userID, phone string) error {
	return update(db, userID, "phone", phone)
}

// SetAdmin grants or revokes the admin flag.
func SetAdmin(db *gorm.DB, userID string, admin bool) error {
	return update(db, userID, "is_admin", admin)
}

func update(db *gorm.DB, userID, column string, value any) error {
	if db == nil {
		return dberr.ErrDBNil
	}

	res := db.Model(&models.User{}).Where(idQueryPattern, userID).Update(column, value)
	if res.Error != nil {
		return dberr.Classify(res.Error)
	}

	if res.RowsAffected == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
