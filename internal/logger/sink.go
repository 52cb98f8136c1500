package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultSinkTimeout = 5 * time.Second
	defaultSinkBuffer  = 256
)

// ErrSinkBufferFull is reported when a record is dropped because the sink
// has fallen behind.
var ErrSinkBufferFull = errors.New("log sink buffer is full, record dropped")

// Record is a single operational log record as handed to a Sink.
type Record struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Caller  string
	Error   string
	Stack   string
	Fields  map[string]any
}

// Sink delivers operational records to an external channel.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// SinkWriter plugs a Sink into zerolog as a LevelWriter.
// Records below the minimum level are dropped. Accepted records are queued
// and emitted by a single worker, so logging never waits on the network.
// Delivery errors and overflow go to ErrorHandler.
type SinkWriter struct {
	sink     Sink
	minLevel zerolog.Level
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Record
	done   chan struct{}
}

// NewSinkWriter starts the worker of a SinkWriter. A zero timeout or buffer
// selects the default.
func NewSinkWriter(sink Sink, minLevel zerolog.Level, timeout time.Duration, buffer int) *SinkWriter {
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}

	if buffer <= 0 {
		buffer = defaultSinkBuffer
	}

	w := &SinkWriter{
		sink:     sink,
		minLevel: minLevel,
		timeout:  timeout,
		queue:    make(chan Record, buffer),
		done:     make(chan struct{}),
	}

	go w.run()

	return w
}

// Write implements io.Writer. Without a level the record is not forwarded.
func (w *SinkWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter. p is decoded before the call
// returns, zerolog reuses the buffer afterwards.
func (w *SinkWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.NoLevel || l == zerolog.Disabled || l < w.minLevel {
		return len(p), nil
	}

	rec, err := DecodeRecord(l, p)
	if err != nil {
		ErrorHandler(err)
		return len(p), nil
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return len(p), nil
	}

	select {
	case w.queue <- rec:
	default:
		ErrorHandler(ErrSinkBufferFull)
	}

	return len(p), nil
}

// Close stops accepting records and waits until the queued ones are emitted.
func (w *SinkWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	<-w.done

	return nil
}

func (w *SinkWriter) run() {
	defer close(w.done)

	for rec := range w.queue {
		w.emit(rec)
	}
}

func (w *SinkWriter) emit(rec Record) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.sink.Emit(ctx, rec); err != nil {
		ErrorHandler(err)
	}
}

// DecodeRecord parses one zerolog JSON line.
func DecodeRecord(l zerolog.Level, p []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err != nil {
		return Record{}, fmt.Errorf("decode log record: %w", err)
	}

	rec := Record{
		Level:  l,
		Time:   time.Now(),
		Fields: make(map[string]any),
	}

	for k, v := range raw {
		switch k {
		case zerolog.LevelFieldName:
		case zerolog.MessageFieldName:
			rec.Message, _ = v.(string)
		case zerolog.CallerFieldName:
			rec.Caller, _ = v.(string)
		case zerolog.ErrorFieldName:
			rec.Error = fmt.Sprint(v)
		case zerolog.ErrorStackFieldName:
			rec.Stack = formatStack(v)
		case zerolog.TimestampFieldName:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(zerolog.TimeFieldFormat, s); err == nil {
					rec.Time = t
				}
			}
		default:
			rec.Fields[k] = v
		}
	}

	return rec, nil
}

// formatStack renders the pkgerrors stack marshaler output one frame per line.
func formatStack(v any) string {
	frames, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}

	var b strings.Builder

	for _, f := range frames {
		frame, isMap := f.(map[string]any)
		if !isMap {
			fmt.Fprintf(&b, "%v\n", f)
			continue
		}

		fmt.Fprintf(&b, "%v:%v %v\n", frame["source"], frame["line"], frame["func"])
	}

	return b.String()
}

// ParseMinLevel parses a sink threshold, defaulting to warn.
func ParseMinLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.WarnLevel
	}

	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.WarnLevel
	}

	return l
}
