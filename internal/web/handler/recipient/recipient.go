// Package recipient manages the people of a corps who receive texts and the
// groups they belong to.
package recipient

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/controller/group"
	recipientctl "github.com/satext/satext/internal/db/controller/recipient"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/membership"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

const (
	// Path is the recipient list route.
	Path = handler.RootPath + "recipients"

	// ListTemplate is the recipient list template.
	ListTemplate = "recipient/list"

	// FormTemplate is the create and edit form template.
	FormTemplate = "recipient/form"
)

// Form is the recipient create and edit form. Group ids are read separately.
type Form struct {
	Name  string `form:"name" validate:"required,max=255"`
	Phone string `form:"phone" validate:"required,max=32"`
}

// Service is the recipient handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	editor *membership.Editor
}

// Handler is the recipient handler.
var Handler = Service{}

// Init initializes the recipient handler.
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
		router.Post(handler.RouterRootPath, s.Create)
		router.Get("/new", s.New)
		router.Get("/:id/edit", s.Edit)
		router.Post("/:id", s.Update)
	})

	return nil
}

func nav(title, page string) *navigation.Context {
	n := navigation.NewContext(title, navigation.PageRecipients).Crumb("Recipients", Path)

	if page != "list" {
		n.Crumb(title, "")
	}

	return n
}

// List renders the recipients of the caller's corps.
func (s *Service) List(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)

	list, err := recipientctl.ByCorps(s.db.WithContext(c.UserContext()), caller.CorpsID)
	if err != nil {
		return err
	}

	return handler.Render(c, s.cfg, ListTemplate, nav("Recipients", "list"), fiber.Map{"Recipients": list})
}

// New renders an empty form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, 0, Form{}, nil, "")
}

// Create stores a new recipient and its groups.
func (s *Service) Create(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)
	groupIDs := handler.FormUints(c, "group_ids")

	form := Form{}
	if err := handler.ParseForm(c, &form); err != nil {
		return s.renderForm(c, 0, form, groupIDs, "Please enter a name and a phone number.")
	}

	id, err := s.editor.CreateRecipient(c.UserContext(), caller, form.Name, form.Phone)
	if msg := formError(err); msg != "" {
		return s.renderForm(c, 0, form, groupIDs, msg)
	}

	if err != nil {
		return err
	}

	if _, err = s.editor.ReplaceGroups(c.UserContext(), caller, id, groupIDs); err != nil {
		log.Error().Err(err).Uint("recipient", id).Msg("failed to assign groups")
		handler.Flash(c, session.FlashWarning, "The groups could not be saved, please edit the recipient again.")
	}

	handler.Flash(c, session.FlashSuccess, "Added "+form.Name+".")

	return c.Redirect(Path)
}

// Edit renders the form for an existing recipient.
func (s *Service) Edit(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)
	id := handler.ParamID(c, "id")
	db := s.db.WithContext(c.UserContext())

	r, err := recipientctl.Get(db, id, caller.CorpsID)
	if err != nil {
		return handler.HTTPError(err)
	}

	groupIDs, err := recipientctl.GroupIDs(db, id)
	if err != nil {
		return err
	}

	return s.renderForm(c, id, Form{Name: r.Name, Phone: r.Phone}, groupIDs, "")
}

// Update writes name, phone and groups of an existing recipient.
func (s *Service) Update(c *fiber.Ctx) error {
	caller, _ := auth.CallerFromContext(c)
	id := handler.ParamID(c, "id")
	groupIDs := handler.FormUints(c, "group_ids")

	form := Form{}
	if err := handler.ParseForm(c, &form); err != nil {
		return s.renderForm(c, id, form, groupIDs, "Please enter a name and a phone number.")
	}

	_, err := s.editor.UpdateRecipient(c.UserContext(), caller, id, form.Name, form.Phone)
	if msg := formError(err); msg != "" {
		return s.renderForm(c, id, form, groupIDs, msg)
	}

	if err != nil {
		return handler.HTTPError(err)
	}

	if _, err = s.editor.ReplaceGroups(c.UserContext(), caller, id, groupIDs); err != nil {
		return handler.HTTPError(err)
	}

	handler.Flash(c, session.FlashSuccess, "Saved "+form.Name+".")

	return c.Redirect(Path)
}

// formError maps editor errors the user can fix to a form message.
func formError(err error) string {
	switch {
	case errors.Is(err, membership.ErrInvalidPhone):
		return "That phone number is not valid."
	case errors.Is(err, membership.ErrEmptyName):
		return "Please enter a name."
	case errors.Is(err, dberr.ErrConflict):
		return "That recipient already exists."
	default:
		return ""
	}
}

func (s *Service) renderForm(c *fiber.Ctx, id uint, form Form, groupIDs []uint, errMsg string) error {
	caller, _ := auth.CallerFromContext(c)

	groups, err := group.ByCorps(s.db.WithContext(c.UserContext()), caller.CorpsID)
	if err != nil {
		return err
	}

	selected := make(map[uint]bool, len(groupIDs))
	for _, gid := range groupIDs {
		selected[gid] = true
	}

	title, action := "New recipient", Path
	if id != 0 {
		title, action = "Edit recipient", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	data := fiber.Map{
		"Form":     form,
		"Action":   action,
		"Groups":   groups,
		"Selected": selected,
	}

	if errMsg != "" {
		data["error"] = errMsg
		c.Status(fiber.StatusUnprocessableEntity)
	}

	page := "new"
	if id != 0 {
		page = "edit"
	}

	return handler.Render(c, s.cfg, FormTemplate, nav(title, page), data)
}
