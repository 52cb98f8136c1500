// Package web wires the fiber application: templates, static files,
// middleware and the handlers of every page.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	fiberlog "github.com/satext/satext/internal/logger/adapter/fiber"
	"github.com/satext/satext/internal/web/handler"
	"github.com/satext/satext/internal/web/handler/admin/approval"
	oidchandler "github.com/satext/satext/internal/web/handler/auth/oidc"
	"github.com/satext/satext/internal/web/handler/compose"
	"github.com/satext/satext/internal/web/handler/corps"
	"github.com/satext/satext/internal/web/handler/group"
	"github.com/satext/satext/internal/web/handler/history"
	"github.com/satext/satext/internal/web/handler/login"
	"github.com/satext/satext/internal/web/handler/logout"
	"github.com/satext/satext/internal/web/handler/pending"
	"github.com/satext/satext/internal/web/handler/profile"
	"github.com/satext/satext/internal/web/handler/recipient"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
)

// CheckAlivePath answers load balancer health checks.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	deps         *handler.Deps
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive returns 503 while the service shuts down.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, deps *handler.Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if deps == nil || deps.Auth == nil || deps.Editor == nil || deps.Engine == nil {
		panic("handler dependencies cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	addTemplateFuncs(templateEngine)

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Log:       cfg.Log,
		SkipPaths: []string{"/static", CheckAlivePath, "/metrics"},
		UserKey:   auth.LocalsUserID,
	}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Webserver.CookieEncryptionKey}))
	}

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	service := &Service{
		cfg:  cfg,
		App:  app,
		db:   db,
		deps: deps,
	}

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(mwauth.New(mwauth.Config{Source: deps.Auth, Secure: !cfg.DevMode}))

	handlers := []handler.Service{
		&login.Handler,
		&oidchandler.Handler,
		&logout.Handler,
		&corps.Handler,
		&pending.Handler,
		&compose.Handler,
		&history.Handler,
		&recipient.Handler,
		&group.Handler,
		&approval.Handler,
		&profile.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, db, deps); err != nil {
			log.Fatal().Err(err).Msg("failed to init web handler")
		}
	}

	return service
}
