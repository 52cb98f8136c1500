package login

import "errors"

var (
	// ErrNoAuthMethod is shown when no identity provider is configured.
	ErrNoAuthMethod = errors.New("sign-in is not configured")

	// ErrSignInFailed is shown when the provider handshake failed.
	ErrSignInFailed = errors.New("sign-in failed, please try again")
)
