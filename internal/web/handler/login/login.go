// Package login renders the sign-in page.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/web/handler"
	"github.com/satext/satext/internal/web/navigation"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// Template is the login page template.
	Template = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	enabled bool
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.enabled = deps.Identity != nil

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
	})

	return nil
}

// Get handles the login page rendering. A failed handshake comes back with ?error=1.
func (s *Service) Get(c *fiber.Ctx) error {
	data := fiber.Map{"oidc_enabled": s.enabled}

	switch {
	case !s.enabled:
		data["error"] = ErrNoAuthMethod.Error()
	case c.Query("error") != "":
		data["error"] = ErrSignInFailed.Error()
	}

	return handler.Render(c, s.cfg, Template, navigation.NewContext("Sign in", ""), data)
}
