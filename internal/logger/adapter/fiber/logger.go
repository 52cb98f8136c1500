// Package fiber provides the zerolog access log middleware for the web service.
package fiber

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/satext/satext/internal/logger"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "Duration of handled http requests.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "status"})

// Config of the access log middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Log is the logger configuration of the application.
	Log logger.Log

	// CacheControlError is set on responses the error handler could not render.
	CacheControlError string

	// SkipPaths are path prefixes that are never written to the access log,
	// e.g. the health check and static assets.
	SkipPaths []string

	// UserKey names the fiber local that holds the signed in user id.
	UserKey string
}

// ConfigDefault is used when New is called without a config.
var ConfigDefault = Config{
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]
	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

// New creates the access log middleware. Requests are written as one json
// line per request to the access file and, if enabled, to the console.
func New(config ...Config) fiber.Handler {
	var (
		cfg        = configDefault(config...)
		writers    []io.Writer
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	if cfg.Log.File.Enabled {
		if fw := newRollingAccessFile(&cfg.Log); fw != nil {
			writers = append(writers, fw)
		}
	}

	if cfg.Log.Console.Enabled && cfg.Log.EnableAccessLogToConsole {
		if cfg.Log.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	accessLog := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		once.Do(func() {
			errHandler = ctx.App().ErrorHandler
		})

		start := time.Now()

		chainErr := ctx.Next()
		if chainErr != nil {
			if errH := errHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // response is already broken
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		status := ctx.Response().StatusCode()

		requestDuration.WithLabelValues(ctx.Method(), strconv.Itoa(status)).Observe(elapsed)

		if skipped(ctx.Path(), cfg.SkipPaths) {
			return nil
		}

		// fasthttp normalizes the path, keep the raw query for the log
		uri := ctx.Path()
		if qs := ctx.Request().URI().QueryString(); len(qs) > 0 {
			uri += "?" + string(qs)
		}

		ev := accessLog.Log().
			Str("IP", ctx.IP()).
			Int("status", status).
			Float64("elapsed", elapsed).
			Str("URI", uri).
			Str("method", ctx.Method()).
			Bytes("host", ctx.Request().Host()).
			Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderReferer, ctx.Get(fiber.HeaderReferer))

		if cfg.UserKey != "" {
			if user, ok := ctx.Locals(cfg.UserKey).(string); ok && user != "" {
				ev.Str("user", user)
			}
		}

		if chainErr != nil {
			ev.Err(chainErr)
		}

		ev.Send()

		return nil
	}
}

func skipped(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}

	return false
}

// newRollingAccessFile opens the rotating access log below File.Path.
func newRollingAccessFile(cfg *logger.Log) io.Writer {
	if cfg.File.Path != "" {
		if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

			return nil
		}
	}

	return cfg.File.Access.Open(cfg.File.Path, "access.log")
}
