package logger_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/logger"
)

type captureSink struct {
	mu      sync.Mutex
	records []logger.Record
	err     error
}

func (s *captureSink) Emit(_ context.Context, rec logger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	return s.err
}

func TestSinkWriter_ForwardsAtOrAboveMinLevel(t *testing.T) {
	sink := &captureSink{}
	w := logger.NewSinkWriter(sink, zerolog.WarnLevel, 0, 0)

	l := zerolog.New(w).With().Timestamp().Logger()

	l.Info().Msg("quiet")
	l.Warn().Str("group", "band").Msg("send failed")
	l.Error().Err(errors.New("boom")).Msg("store down")

	require.NoError(t, w.Close())

	require.Len(t, sink.records, 2)
	assert.Equal(t, "send failed", sink.records[0].Message)
	assert.Equal(t, zerolog.WarnLevel, sink.records[0].Level)
	assert.Equal(t, "band", sink.records[0].Fields["group"])
	assert.Equal(t, "boom", sink.records[1].Error)
}

func TestSinkWriter_SinkErrorDoesNotFailLogging(t *testing.T) {
	sink := &captureSink{err: errors.New("webhook down")}
	w := logger.NewSinkWriter(sink, zerolog.WarnLevel, 0, 0)

	n, err := w.WriteLevel(zerolog.ErrorLevel, []byte(`{"level":"error","message":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"level":"error","message":"x"}`), n)

	require.NoError(t, w.Close())
	assert.Len(t, sink.records, 1)
}

// blockingSink holds every Emit until release is closed.
type blockingSink struct {
	captureSink
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Emit(ctx context.Context, rec logger.Record) error {
	s.once.Do(func() { close(s.started) })
	<-s.release

	return s.captureSink.Emit(ctx, rec)
}

func TestSinkWriter_SlowSinkDoesNotBlockLogging(t *testing.T) {
	sink := &blockingSink{started: make(chan struct{}), release: make(chan struct{})}
	w := logger.NewSinkWriter(sink, zerolog.WarnLevel, time.Minute, 1)

	line := []byte(`{"level":"warn","message":"x"}`)

	_, err := w.WriteLevel(zerolog.WarnLevel, line)
	require.NoError(t, err)
	<-sink.started

	// one record is held by the sink, one fits the queue, the third is dropped
	done := make(chan struct{})
	go func() {
		defer close(done)

		for range 2 {
			_, _ = w.WriteLevel(zerolog.WarnLevel, line)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("logging waited for the sink")
	}

	close(sink.release)
	require.NoError(t, w.Close())
	assert.Len(t, sink.records, 2)
}

func TestSinkWriter_WriteAfterCloseIsDropped(t *testing.T) {
	sink := &captureSink{}
	w := logger.NewSinkWriter(sink, zerolog.WarnLevel, 0, 0)
	require.NoError(t, w.Close())

	n, err := w.WriteLevel(zerolog.ErrorLevel, []byte(`{"level":"error","message":"late"}`))
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Empty(t, sink.records)
	require.NoError(t, w.Close())
}

func TestDecodeRecord_InvalidJSON(t *testing.T) {
	_, err := logger.DecodeRecord(zerolog.WarnLevel, []byte("not json"))
	require.Error(t, err)
}

func TestParseMinLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, logger.ParseMinLevel(""))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseMinLevel("nonsense"))
	assert.Equal(t, zerolog.ErrorLevel, logger.ParseMinLevel("error"))
}

func TestSplitText(t *testing.T) {
	short := "one line"
	assert.Equal(t, []string{short}, logger.SplitText(short, logger.DiscordTextLimit))

	line := strings.Repeat("x", 30) + "\n"
	text := strings.Repeat(line, 10) // 310 chars

	chunks := logger.SplitText(text, 100)
	require.Len(t, chunks, 4)
	assert.Equal(t, text, strings.Join(chunks, ""))

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
	}

	// a single line longer than the limit is cut hard
	long := strings.Repeat("y", 250)
	chunks = logger.SplitText(long, 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestParseWebhookURL(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		id      string
		token   string
		wantErr bool
	}{
		{name: "valid", raw: "https://discord.com/api/webhooks/123/abc-def", id: "123", token: "abc-def"},
		{name: "missing token", raw: "https://discord.com/api/webhooks/123", wantErr: true},
		{name: "not a webhook", raw: "https://discord.com/channels/1/2", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, token, err := logger.ParseWebhookURL(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, logger.ErrInvalidWebhookURL)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.id, id)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestLevelColor(t *testing.T) {
	assert.Equal(t, logger.LevelColor(zerolog.ErrorLevel), logger.LevelColor(zerolog.WarnLevel))
	assert.Equal(t, logger.LevelColor(zerolog.DebugLevel), logger.LevelColor(zerolog.TraceLevel))
	assert.NotEqual(t, logger.LevelColor(zerolog.InfoLevel), logger.LevelColor(zerolog.ErrorLevel))
}

func TestInit_RejectsBrokenSinkConfig(t *testing.T) {
	err := logger.Init(logger.Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		Discord:     logger.Discord{Enabled: true, WebhookURL: "nope"},
	})
	require.ErrorIs(t, err, logger.ErrInvalidWebhookURL)

	err = logger.Init(logger.Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		DataDog:     logger.DataDog{Enabled: true},
	})
	require.ErrorIs(t, err, logger.ErrDataDogAPIKeyIsEmpty)
}
