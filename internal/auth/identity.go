package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Identity is the verified tuple the identity provider hands over after a
// successful sign in.
type Identity struct {
	ExternalID string `validate:"required"`
	Name       string
	Email      string `validate:"required,email"`
	AvatarURL  string `validate:"omitempty,url"`
}

// Validate checks that the identity can be used to create a user.
func (i Identity) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}

	return nil
}
