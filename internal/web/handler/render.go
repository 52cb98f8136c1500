package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/navigation"
	"github.com/satext/satext/internal/web/session"
)

// ErrInvalidFormData is returned when a submitted form cannot be parsed.
var ErrInvalidFormData = errors.New("invalid form data")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Render renders template inside the base layout. The navigation, the
// caller and the queued flashes are added to data.
func Render(c *fiber.Ctx, cfg *config.Config, template string, nav *navigation.Context, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav
	data["AppTitle"] = cfg.Title

	if caller, ok := auth.CallerFromContext(c); ok {
		data["Caller"] = caller
		data["Menu"] = navigation.Menu(caller)
	}

	if sess := session.FromContext(c); sess != nil && len(sess.Flashes) > 0 {
		data["Flashes"] = sess.PopFlashes()

		if err := session.Save(c); err != nil {
			log.Error().Err(err).Msg("failed to save session")
		}
	}

	return c.Render(template, data, BaseLayout)
}

// Flash queues a flash for the next page and logs when the session can not be saved.
func Flash(c *fiber.Ctx, kind, text string) {
	if err := session.AddFlash(c, kind, text); err != nil {
		log.Error().Err(err).Msg("failed to save flash")
	}
}

// ParseForm parses the request body into form and validates it.
func ParseForm(c *fiber.Ctx, form any) error {
	if err := c.BodyParser(form); err != nil {
		return ErrInvalidFormData
	}

	return validate.Struct(form)
}

// ParamID returns the numeric route parameter name, 0 when absent or invalid.
func ParamID(c *fiber.Ctx, name string) uint {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0
	}

	return uint(id)
}

// FormUints returns every numeric value posted under name. Invalid values are dropped.
func FormUints(c *fiber.Ctx, name string) []uint {
	raw := c.Request().PostArgs().PeekMulti(name)
	out := make([]uint, 0, len(raw))

	for _, v := range raw {
		id, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil || id == 0 {
			continue
		}

		out = append(out, uint(id))
	}

	return out
}

// HTTPError maps store and gate errors to their HTTP status.
func HTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dberr.ErrNotFound):
		return fiber.ErrNotFound
	case errors.Is(err, gate.ErrForbidden):
		return fiber.ErrForbidden
	default:
		return err
	}
}
