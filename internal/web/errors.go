package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/handler"
)

// ErrorTemplate renders every error page.
const ErrorTemplate = "error"

var statusText = map[int]string{
	fiber.StatusForbidden:           "You don't have permission to access this page.",
	fiber.StatusNotFound:            "The page you requested does not exist.",
	fiber.StatusServiceUnavailable:  "The service is unavailable, please try again shortly.",
	fiber.StatusInternalServerError: "Something went wrong on our side.",
}

// ErrorHandler renders store and gate errors with their status and hides
// everything else behind a generic 500 page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error

	switch {
	case errors.Is(err, dberr.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, gate.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.As(err, &fe):
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Stack().Err(pkgerrors.WithStack(err)).
			Str("method", c.Method()).Str("path", c.Path()).
			Msg("request failed")
	}

	msg, ok := statusText[code]
	if !ok {
		msg = fiber.ErrBadRequest.Message
		if fe != nil {
			msg = fe.Message
		}
	}

	c.Status(code)

	if errRender := c.Render(ErrorTemplate, fiber.Map{
		"Status":   code,
		"Message":  msg,
		"AppTitle": c.App().Config().AppName,
	}, handler.BaseLayout); errRender != nil {
		log.Error().Err(errRender).Msg("failed to render error page")

		return c.Status(code).SendString(msg)
	}

	return nil
}
