// Package history lists the recent messages sent by the caller's corps.
package history

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/controller/message"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
)

const (
	// Path is the history route.
	Path = handler.RootPath + "history"

	// Template is the history template.
	Template = "history/history"

	// Limit is the number of rows shown.
	Limit = 200
)

// Service is the history handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the history handler.
var Handler = Service{}

// Init initializes the history handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *handler.Deps) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, mwauth.Require(gate.CapSend), s.Get)

	return nil
}

// Get renders the delivery log, newest first.
func (s *Service) Get(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	entries, err := message.RecentByCorps(s.db.WithContext(c.UserContext()), caller.CorpsID, Limit)
	if err != nil {
		return err
	}

	return handler.Render(c, s.cfg, Template,
		navigation.NewContext("History", navigation.PageHistory).
			Crumb("Send", "/").
			Crumb("History", Path),
		fiber.Map{"Entries": entries},
	)
}
