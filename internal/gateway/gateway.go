// Package gateway defines the outbound messaging contract and its drivers.
package gateway

import (
	"context"
	"errors"

	"github.com/satext/satext/internal/config"
)

var (
	// ErrRejected is returned when the gateway refused a message, e.g. for an undeliverable number.
	ErrRejected = errors.New("message rejected by gateway")
	// ErrInvalidNumber is returned by Lookup for numbers that can not be normalized.
	ErrInvalidNumber = errors.New("invalid phone number")
	// ErrClientNotInitialized is returned when a driver is used without credentials.
	ErrClientNotInitialized = errors.New("gateway client not initialized")
)

// Gateway sends text messages and validates phone numbers.
type Gateway interface {
	// Send delivers body from one number to another and returns the gateway message id.
	Send(ctx context.Context, to, from, body string) (string, error)
	// Lookup normalizes raw to E.164. It fails with ErrInvalidNumber.
	Lookup(ctx context.Context, raw string) (string, error)
}

// New creates the driver selected in cfg.
func New(cfg config.Gateway) (Gateway, error) {
	switch cfg.Driver {
	case config.GatewayTwilio:
		return NewTwilio(cfg)
	case config.GatewayDryRun, "":
		return NewDryRun(cfg.Region), nil
	default:
		return nil, config.ErrUnknownGatewayDriver
	}
}
