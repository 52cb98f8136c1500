// Package pending shows the approval notice to linked users an administrator
// has not approved yet. The first visit texts the administrators.
package pending

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the approval pending route.
	Path = handler.RootPath + "pending"

	// Template is the approval pending template.
	Template = "pending"
)

// Service is the approval pending handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the approval pending handler.
var Handler = Service{}

// Init initializes the approval pending handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = deps.Auth

	app.Get(Path, s.approvedGoHome, mwauth.Require(gate.CapViewPending), s.Get)

	return nil
}

// approvedGoHome sends users approved since they bookmarked the page to the compose page.
func (s *Service) approvedGoHome(c *fiber.Ctx) error {
	if caller, ok := auth.CallerFromContext(c); ok && caller.Can(gate.CapSend) {
		return c.Redirect(handler.RootPath)
	}

	return c.Next()
}

// Get renders the notice. Notice failures never block the page.
func (s *Service) Get(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	if _, err := s.auth.RequestApproval(c.UserContext(), caller); err != nil {
		log.Error().Err(err).Str("user", caller.UserID).Msg("approval request failed")
	}

	if sess := session.FromContext(c); sess != nil && !sess.AwaitingApproval {
		sess.AwaitingApproval = true

		if err := session.Save(c); err != nil {
			log.Error().Err(err).Str("user", caller.UserID).Msg("failed to save session")
		}
	}

	return handler.Render(c, s.cfg, Template,
		navigation.NewContext("Waiting for approval", navigation.PagePending),
		fiber.Map{"CorpsName": caller.CorpsName},
	)
}
