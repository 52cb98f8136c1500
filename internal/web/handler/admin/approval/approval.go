// Package approval shows administrators the users waiting for approval.
package approval

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/controller/user"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the approval queue route.
	Path = handler.RootPath + "admin/approvals"

	// Template is the approval queue template.
	Template = "admin/approval/list"
)

// Service is the approval handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the approval handler.
var Handler = Service{}

// Init initializes the approval handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = deps.Auth

	app.Route(Path, func(router fiber.Router) {
		router.Use(mwauth.Require(gate.CapApprove))
		router.Get(handler.RouterRootPath, s.List)
		router.Post("/:id", s.Approve)
	})

	return nil
}

// List renders the unapproved users, oldest first.
func (s *Service) List(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	pending, err := s.auth.Pending(c.UserContext(), caller)
	if err != nil {
		return handler.HTTPError(err)
	}

	return handler.Render(c, s.cfg, Template,
		navigation.NewContext("Approvals", navigation.PageApprovals),
		fiber.Map{"Pending": pending},
	)
}

// Approve approves one user.
func (s *Service) Approve(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	id := c.Params("id")

	u, err := s.auth.Approve(c.UserContext(), caller, id)
	switch {
	case errors.Is(err, user.ErrAlreadyApproved):
		handler.Flash(c, session.FlashWarning, "That user is already approved.")
		return c.Redirect(Path)
	case errors.Is(err, user.ErrNotLinked):
		handler.Flash(c, session.FlashWarning, "That user has not chosen a corps yet.")
		return c.Redirect(Path)
	case err != nil:
		return handler.HTTPError(err)
	}

	handler.Flash(c, session.FlashSuccess, "Approved "+u.Name+".")

	return c.Redirect(Path)
}
