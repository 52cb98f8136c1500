package oidc

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/web/handler"
	"github.com/satext/satext/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	failedPath = handler.LoginPath + "?error=1"
)

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	provider handler.IdentityProvider
	auth     *auth.Service
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init initializes the OIDC handler. Without a provider no routes are registered.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) error {
	if app == nil || cfg == nil || db == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.provider = deps.Identity
	s.auth = deps.Auth

	if s.provider == nil {
		log.Warn().Msg("no OIDC provider configured, sign-in is disabled")
		return nil
	}

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)

	return nil
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")
		return c.Redirect(failedPath)
	}

	if err = session.SaveState(state); err != nil {
		log.Error().Err(err).Msg("failed to store state token")
		return c.Redirect(failedPath)
	}

	return c.Redirect(s.provider.AuthURL(state))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Warn().Msg("missing code or state in OIDC callback")
		return c.Redirect(failedPath)
	}

	valid, err := session.ConsumeState(state)
	if err != nil || !valid {
		log.Warn().Err(err).Msg("unknown or expired state token")
		return c.Redirect(failedPath)
	}

	identity, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Warn().Err(err).Msg("OIDC authentication failed")
		return c.Redirect(failedPath)
	}

	user, err := s.auth.Login(c.UserContext(), identity)
	if err != nil {
		log.Error().Err(err).Str("email", identity.Email).Msg("failed to load user")
		return c.Redirect(failedPath)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return c.Redirect(failedPath)
	}

	if err = (&session.Data{UserID: user.ID}).Write(sessionID); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Redirect(failedPath)
	}

	c.Cookie(session.Cookie(sessionID, int(session.Expiry().Seconds()), !s.cfg.DevMode))

	log.Info().Str("user", user.ID).Str("email", user.Email).Msg("user signed in")

	return c.Redirect(handler.RootPath)
}
