// Package daemon assembles the store, gateway, domain services and web
// service from the configuration.
package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gateway"
	"github.com/satext/satext/internal/membership"
	"github.com/satext/satext/internal/web"
	"github.com/satext/satext/internal/web/handler"
	"github.com/satext/satext/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves http until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	db, err := OpenDB(cfg.DB, cfg.DevMode)
	if err != nil {
		return nil, err
	}

	if err = Migrate(cfg, db); err != nil {
		return nil, err
	}

	gw, err := gateway.New(cfg.Gateway)
	if err != nil {
		return nil, err
	}

	engine := dispatch.New(db, gw, cfg.Gateway.SendTimeout, cfg.Gateway.From)

	deps := &handler.Deps{
		Auth: auth.NewService(db, engine, auth.Config{
			Title:       cfg.Title,
			URL:         cfg.Webserver.URL,
			AdminEmails: cfg.Auth.AdminEmails,
		}),
		Editor: membership.NewEditor(db, engine, membership.Config{Title: cfg.Title, Region: cfg.Gateway.Region}),
		Engine: engine,
	}

	if cfg.Auth.OIDC.ClientID != "" {
		provider, errOIDC := auth.NewOIDCProvider(ctx, cfg.Auth.OIDC)
		if errOIDC != nil {
			log.Warn().Err(errOIDC).Msg("failed to initialize OIDC provider, sign-in is disabled")
		} else {
			deps.Identity = provider
		}
	}

	session.Init(newSessionStorage(cfg.DB), cfg.Webserver.Session.ExpiryTime)

	log.Info().Str("engine", cfg.DB.GormEngine).Str("gateway", cfg.Gateway.Driver).Msg("daemon initialized")

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, deps),
	}, nil
}
