package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrEmailNotVerified is returned when the identity provider did not verify the email address.
	ErrEmailNotVerified = errors.New("email address is not verified")

	// ErrInvalidIdentity is returned when a verified identity lacks a subject or email.
	ErrInvalidIdentity = errors.New("identity is incomplete")

	// ErrUserNotFound is returned when the session points to a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPhone is returned when the gateway can not validate a user's phone number.
	ErrInvalidPhone = errors.New("invalid phone number")
)
