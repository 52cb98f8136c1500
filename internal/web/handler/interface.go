package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/membership"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *Deps) error
}

// IdentityProvider runs the external sign-in handshake.
type IdentityProvider interface {
	AuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (auth.Identity, error)
}

// Deps are the domain services shared by the handlers.
type Deps struct {
	Auth     *auth.Service
	Editor   *membership.Editor
	Engine   *dispatch.Engine
	Identity IdentityProvider // nil when sign-in is not configured
}
