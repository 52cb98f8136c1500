package logger

import (
	"path"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Console writes to stdout (debug, info) and stderr (everything else).
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// RollingFile configures one lumberjack rotated file. Sizes are in megabytes, ages in days.
type RollingFile struct {
	Name       string `toml:"name"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
}

// Open returns the rotating writer for the file below dir. An empty Name falls back to fallback.
func (r RollingFile) Open(dir, fallback string) *lumberjack.Logger {
	name := r.Name
	if name == "" {
		name = fallback
	}

	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

// LogFile holds one rolling file per level group plus the web access log.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access RollingFile `toml:"access"`
	Error  RollingFile `toml:"error"`
	Info   RollingFile `toml:"info"`
	Trace  RollingFile `toml:"trace"`
	Warn   RollingFile `toml:"warn"`
}

// Discord posts operational records to a channel webhook.
type Discord struct {
	Enabled    bool          `toml:"enabled"`
	WebhookURL string        `toml:"webhookURL"` // https://discord.com/api/webhooks/<id>/<token>
	MinLevel   string        `toml:"minLevel"`   // lowest level forwarded, default warn
	Timeout    time.Duration `toml:"timeout"`
	Buffer     int           `toml:"buffer"` // queued records before dropping, default 256
}

// DataDog submits records to the Datadog logs intake.
type DataDog struct {
	ServiceName string                       `toml:"serviceName"`
	APIKey      string                       `toml:"apiKey"`
	Enabled     bool                         `toml:"enabled"`
	Site        string                       `toml:"site"` // DD_SITE, e.g. "datadoghq.eu"
	MinLevel    string                       `toml:"minLevel"`
	Servers     datadog.ServerConfigurations `toml:"servers"`
	Timeout     time.Duration                `toml:"timeout"`
	Buffer      int                          `toml:"buffer"`
}

// Log is the [Log] section of main.toml.
type Log struct {
	LogLevel string // trace, debug, info, warn, error
	LogEnv   string

	// EnableAccessLogToConsole mirrors the web access log to the console.
	// Console.Enabled must be set as well.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // skip /checkalive in the access log

	AppName     string
	ServiceName string

	Console Console
	File    LogFile `toml:"file"`
	Discord Discord
	DataDog DataDog
}
