// Package compose is the landing page of approved users: pick a group, write
// a message and send it to every member.
package compose

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/controller/group"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/roster"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the compose route.
	Path = handler.RootPath

	// Template is the compose template.
	Template = "compose/compose"

	// SentPrefix starts the confirmation flash.
	SentPrefix = "Message sent to: "
)

// Form is the compose form.
type Form struct {
	GroupID uint   `form:"group_id" validate:"required"`
	Message string `form:"message" validate:"required,max=1600"`
}

// Service is the compose handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	engine *dispatch.Engine
}

// Handler is the compose handler.
var Handler = Service{}

// Init initializes the compose handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.engine = deps.Engine

	guard := mwauth.Require(gate.CapSend)

	app.Get(Path, guard, s.Get)
	app.Post(Path, guard, s.Post)

	return nil
}

// Get renders the compose form with the active groups of the caller's corps.
func (s *Service) Get(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	groups, err := group.ByCorps(s.db.WithContext(c.UserContext()), caller.CorpsID)
	if err != nil {
		return err
	}

	return handler.Render(c, s.cfg, Template,
		navigation.NewContext("Send a message", navigation.PageCompose),
		fiber.Map{
			"Groups":    groups,
			"CorpsName": caller.CorpsName,
		},
	)
}

// Post resolves the group and dispatches the message.
func (s *Service) Post(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)
	ctx := c.UserContext()

	form := new(Form)
	if err := handler.ParseForm(c, form); err != nil {
		handler.Flash(c, session.FlashDanger, "Please choose a group and write a message.")
		return c.Redirect(Path)
	}

	entries, err := roster.Resolve(ctx, s.db, caller, form.GroupID)
	if errors.Is(err, dberr.ErrNotFound) {
		handler.Flash(c, session.FlashDanger, "That group is not available any more.")
		return c.Redirect(Path)
	}

	if err != nil {
		return err
	}

	res, err := s.engine.Send(ctx, caller, form.GroupID, entries, form.Message)

	switch {
	case errors.Is(err, dispatch.ErrEmptyBody):
		handler.Flash(c, session.FlashDanger, "Please write a message.")
		return c.Redirect(Path)
	case err != nil && res == nil:
		return err
	case err != nil:
		log.Error().Err(err).Str("user", caller.UserID).Uint("group", form.GroupID).
			Msg("dispatch aborted")
		handler.Flash(c, session.FlashDanger, "Sending stopped early, please check the history before retrying.")
		handler.Flash(c, session.FlashWarning, SentPrefix+res.Summary())

		return err
	}

	handler.Flash(c, session.FlashSuccess, SentPrefix+res.Summary())

	if len(res.Failed) > 0 {
		names := make([]string, 0, len(res.Failed))
		for _, f := range res.Failed {
			names = append(names, f.Entry.Name)
		}

		handler.Flash(c, session.FlashWarning, "Could not send to: "+strings.Join(names, ", "))
	}

	return c.Redirect(Path)
}
