package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	appauth "github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/handler"
	"github.com/satext/satext/internal/web/session"
)

// ApprovedFlash is shown on the first request after an administrator
// approved a user who saw the pending page.
const ApprovedFlash = "You've been approved. You can now send messages."

// CallerSource loads the caller for a user id.
type CallerSource interface {
	Caller(ctx context.Context, userID string) (gate.Caller, error)
}

// Config configures the session middleware.
type Config struct {
	Source CallerSource
	// PublicPaths are path prefixes served without a session.
	PublicPaths []string
	// Secure marks the cleared cookie as secure.
	Secure bool
}

// DefaultPublicPaths are reachable without signing in.
var DefaultPublicPaths = []string{"/static", "/checkalive", "/metrics", "/logout", "/auth/oidc/"}

// New returns the session middleware.
func New(cfg Config) fiber.Handler {
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = DefaultPublicPaths
	}

	return func(c *fiber.Ctx) error {
		path := strings.ToLower(c.Path())

		for _, p := range cfg.PublicPaths {
			if strings.HasPrefix(path, p) {
				return c.Next()
			}
		}

		isLoginPage := strings.HasPrefix(path, handler.LoginPath)
		sessionID := c.Cookies(session.CookieName)

		data := new(session.Data)
		if err := data.Read(sessionID); err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error().Err(err).Msg("failed to read session")
			}

			if isLoginPage {
				return c.Next()
			}

			return c.Redirect(handler.LoginPath)
		}

		caller, err := cfg.Source.Caller(c.UserContext(), data.UserID)
		if errors.Is(err, appauth.ErrUserNotFound) {
			// the user row is gone, the session is useless
			if errDel := session.Delete(sessionID); errDel != nil {
				log.Error().Err(errDel).Msg("failed to delete session")
			}

			c.Cookie(session.Cookie("", -1, cfg.Secure))

			if isLoginPage {
				return c.Next()
			}

			return c.Redirect(handler.LoginPath)
		}

		if err != nil {
			return err
		}

		if isLoginPage {
			return c.Redirect(handler.RootPath)
		}

		session.Attach(c, sessionID, data)

		if data.AwaitingApproval && caller.Can(gate.CapSend) {
			data.AwaitingApproval = false
			data.AddFlash(session.FlashSuccess, ApprovedFlash)

			if err = session.Save(c); err != nil {
				log.Error().Err(err).Str("user", caller.UserID).Msg("failed to save session")
			}
		}

		c.Locals(appauth.LocalsCaller, caller)
		c.Locals(appauth.LocalsUserID, caller.UserID)

		return c.Next()
	}
}

// Landing returns the page a caller in state belongs on when it opens a
// page its state does not allow, or "" when a 403 is the right answer.
func Landing(state gate.State) string {
	switch state {
	case gate.Unlinked:
		return "/corps"
	case gate.LinkedUnapproved:
		return "/pending"
	default:
		return ""
	}
}

// Require is appauth.RequireCapability with Landing.
func Require(capability gate.Capability) fiber.Handler {
	return appauth.RequireCapability(capability, Landing)
}
