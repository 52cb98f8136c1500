// Package logger configures the global zerolog logger: level split console and
// rolling file outputs, a prometheus counter hook and optional operational sinks.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	sinksMu sync.Mutex
	sinks   []*SinkWriter
)

// LevelWriter routes each record to one of four outputs:
// trace, debug and info, warn, and error and above.
type LevelWriter struct {
	Trace io.Writer
	Info  io.Writer
	Warn  io.Writer
	Error io.Writer
}

// Write implements io.Writer for records without level information.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	w := lw.route(l)
	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

func (lw *LevelWriter) route(l zerolog.Level) io.Writer {
	switch {
	case l == zerolog.Disabled:
		return nil
	case l == zerolog.TraceLevel:
		return lw.Trace
	case l == zerolog.WarnLevel:
		return lw.Warn
	case l > zerolog.WarnLevel:
		return lw.Error
	default:
		return lw.Info
	}
}

// Init replaces the global zerolog logger according to cfg.
// With no output enabled every record is dropped.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "loglevel %q is not supported", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	writers, opened, err := outputs(cfg)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	trace := level == zerolog.TraceLevel
	if trace {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	lc := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp()

	switch {
	case cfg.ReportCaller && trace:
		lc = lc.Stack()
	case cfg.ReportCaller:
		lc = lc.Caller()
	}

	log.Logger = lc.Logger()

	sinksMu.Lock()
	previous := sinks
	sinks = opened
	sinksMu.Unlock()

	closeSinks(previous)

	return nil
}

// Close flushes the operational sinks opened by Init.
func Close() {
	sinksMu.Lock()
	previous := sinks
	sinks = nil
	sinksMu.Unlock()

	closeSinks(previous)
}

func closeSinks(list []*SinkWriter) {
	for _, sw := range list {
		_ = sw.Close()
	}
}

// outputs collects the enabled writers and the sink writers among them.
func outputs(cfg Log) ([]io.Writer, []*SinkWriter, error) {
	var (
		writers []io.Writer
		opened  []*SinkWriter
	)

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg.Console))
	}

	if cfg.File.Enabled {
		if fw := newRollingFiles(cfg.File); fw != nil {
			writers = append(writers, fw)
		}
	}

	if cfg.Discord.Enabled {
		sink, err := NewDiscordSink(cfg.Discord, cfg.AppName)
		if err != nil {
			return nil, nil, errors.Wrap(err, "discord log sink")
		}

		sw := NewSinkWriter(sink, ParseMinLevel(cfg.Discord.MinLevel), cfg.Discord.Timeout, cfg.Discord.Buffer)
		opened = append(opened, sw)
		writers = append(writers, sw)
	}

	if cfg.DataDog.Enabled {
		sink, err := NewDataDogSink(cfg.DataDog, cfg.AppName)
		if err != nil {
			closeSinks(opened)

			return nil, nil, errors.Wrap(err, "datadog log sink")
		}

		sw := NewSinkWriter(sink, ParseMinLevel(cfg.DataDog.MinLevel), cfg.DataDog.Timeout, cfg.DataDog.Buffer)
		opened = append(opened, sw)
		writers = append(writers, sw)
	}

	return writers, opened, nil
}

// newRollingFiles opens one lumberjack file per level group below cfg.Path.
func newRollingFiles(cfg LogFile) io.Writer {
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil { //nolint:mnd
		log.Error().Err(err).Str("path", cfg.Path).Msg("can't create log directory")

		return nil
	}

	return &LevelWriter{
		Trace: cfg.Trace.Open(cfg.Path, "trace.log"),
		Info:  cfg.Info.Open(cfg.Path, "info.log"),
		Warn:  cfg.Warn.Open(cfg.Path, "warn.log"),
		Error: cfg.Error.Open(cfg.Path, "error.log"),
	}
}

// NewConsoleWriter writes debug and info to stdout and the rest to stderr,
// either as JSON lines or through zerolog.ConsoleWriter.
func NewConsoleWriter(cfg Console) io.Writer {
	out := func(f *os.File) io.Writer {
		if !cfg.UseConsoleWriter {
			return f
		}

		return zerolog.ConsoleWriter{Out: f, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		Trace: out(os.Stderr),
		Info:  out(os.Stdout),
		Warn:  out(os.Stderr),
		Error: out(os.Stderr),
	}
}
