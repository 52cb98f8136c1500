// Package corps lets a new user pick the corps it belongs to.
package corps

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	corpsctl "github.com/satext/satext/internal/db/controller/corps"
	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the corps selection route.
	Path = handler.RootPath + "corps"

	// Template is the corps selection template.
	Template = "corps/select"
)

// Form is the corps selection form.
type Form struct {
	CorpsID uint `form:"corps_id" validate:"required"`
}

// Service is the corps selection handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	db   *gorm.DB
	auth *auth.Service
}

// Handler is the corps selection handler.
var Handler = Service{}

// Init initializes the corps selection handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.auth = deps.Auth

	app.Route(Path, func(router fiber.Router) {
		router.Use(mwauth.Require(gate.CapSelectCorps))
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

func (s *Service) nav() *navigation.Context {
	return navigation.NewContext("Choose your corps", navigation.PageCorps)
}

// Get lists the divisions and, once one is chosen with ?division=, its corps.
func (s *Service) Get(c *fiber.Ctx) error {
	db := s.db.WithContext(c.UserContext())

	divisions, err := corpsctl.Divisions(db)
	if err != nil {
		return err
	}

	divisionID := uint(c.QueryInt("division"))
	data := fiber.Map{"Divisions": divisions, "DivisionID": divisionID}

	if divisionID > 0 {
		list, err := corpsctl.ByDivision(db, divisionID)
		if err != nil {
			return err
		}

		data["Corps"] = list
	}

	return handler.Render(c, s.cfg, Template, s.nav(), data)
}

// Post links the caller to the chosen corps.
func (s *Service) Post(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	form := new(Form)
	if err := handler.ParseForm(c, form); err != nil {
		handler.Flash(c, session.FlashDanger, "Please choose a corps.")
		return c.Redirect(Path)
	}

	name, err := s.auth.LinkCorps(c.UserContext(), caller, form.CorpsID)
	if errors.Is(err, dberr.ErrNotFound) {
		handler.Flash(c, session.FlashDanger, "That corps does not exist.")
		return c.Redirect(Path)
	}

	if err != nil {
		log.Error().Err(err).Str("user", caller.UserID).Msg("failed to link corps")
		return err
	}

	handler.Flash(c, session.FlashSuccess, "You are now a member of "+name+".")

	return c.Redirect(handler.RootPath)
}
