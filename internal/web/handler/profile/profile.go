// Package profile lets every signed-in user set the phone number
// administrator notices and the approval welcome are sent to.
package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/phone"
	"github.com/satext/satext/internal/web/handler"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the profile route.
	Path = handler.RootPath + "profile"

	// Template is the profile template.
	Template = "profile/profile"
)

// Form is the profile form.
type Form struct {
	Phone string `form:"phone" validate:"required,max=32"`
}

// Service is the profile handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.auth = deps.Auth

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get renders the profile form.
func (s *Service) Get(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return c.Redirect(handler.LoginPath)
	}

	return s.render(c, Form{Phone: phone.National(caller.Phone)}, "")
}

// Post stores the phone number.
func (s *Service) Post(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return c.Redirect(handler.LoginPath)
	}

	form := Form{}
	if err := handler.ParseForm(c, &form); err != nil {
		return s.render(c, form, "Please enter a phone number.")
	}

	_, err := s.auth.UpdatePhone(c.UserContext(), caller, form.Phone)
	if errors.Is(err, auth.ErrInvalidPhone) {
		return s.render(c, form, "That phone number is not valid.")
	}

	if err != nil {
		return handler.HTTPError(err)
	}

	handler.Flash(c, session.FlashSuccess, "Your phone number was saved.")

	return c.Redirect(Path)
}

func (s *Service) render(c *fiber.Ctx, form Form, errMsg string) error {
	data := fiber.Map{"Form": form}

	if errMsg != "" {
		data["error"] = errMsg
		c.Status(fiber.StatusUnprocessableEntity)
	}

	return handler.Render(c, s.cfg, Template,
		navigation.NewContext("Profile", navigation.PageProfile),
		data,
	)
}
