// Package group lets managers add and retire the distribution groups of their corps.
package group

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/controller/dberr"
	groupctl "github.com/satext/satext/internal/db/controller/group"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/membership"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the group list route.
	Path = handler.RootPath + "groups"

	// Template is the group list template.
	Template = "group/list"
)

// Form is the add group form.
type Form struct {
	Name string `form:"name" validate:"required,max=100"`
}

// Service is the group handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	editor *membership.Editor
}

// Handler is the group handler.
var Handler = Service{}

// Init initializes the group handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.editor = deps.Editor

	app.Route(Path, func(router fiber.Router) {
		router.Use(mwauth.Require(gate.CapManage))
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Add)
		router.Post("/:id/retire", s.Retire)
	})

	return nil
}

// List renders the active groups.
func (s *Service) List(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	groups, err := groupctl.ByCorps(s.db.WithContext(c.UserContext()), caller.CorpsID)
	if err != nil {
		return err
	}

	return handler.Render(c, s.cfg, Template,
		navigation.NewContext("Groups", navigation.PageGroups),
		fiber.Map{"Groups": groups},
	)
}

// Add creates a group.
func (s *Service) Add(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	form := new(Form)
	if err := handler.ParseForm(c, form); err != nil {
		handler.Flash(c, session.FlashDanger, "Please enter a group name of at most 100 characters.")
		return c.Redirect(Path)
	}

	g, err := s.editor.AddGroup(c.UserContext(), caller, form.Name)

	switch {
	case errors.Is(err, membership.ErrEmptyName):
		handler.Flash(c, session.FlashDanger, "Please enter a group name.")
	case errors.Is(err, dberr.ErrConflict):
		handler.Flash(c, session.FlashDanger, "A group with that name already exists.")
	case err != nil:
		return handler.HTTPError(err)
	default:
		log.Info().Str("user", caller.UserID).Uint("group", g.ID).Msg("group added")
		handler.Flash(c, session.FlashSuccess, "Added group "+g.Name+".")
	}

	return c.Redirect(Path)
}

// Retire hides a group from compose and membership forms. Its log rows stay.
func (s *Service) Retire(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)
	id := handler.ParamID(c, "id")

	if err := s.editor.RetireGroup(c.UserContext(), caller, id); err != nil {
		return handler.HTTPError(err)
	}

	log.Info().Str("user", caller.UserID).Uint("group", id).Msg("group retired")
	handler.Flash(c, session.FlashSuccess, "The group was retired.")

	return c.Redirect(Path)
}
