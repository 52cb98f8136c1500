package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/message"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/gateway"
)

// Synthetic sender ids of system originated sends.
const (
	SenderSystem  = "SYSTEM"
	SenderWelcome = "WELCOME"
)

const defaultTimeout = 15 * time.Second

// ErrEmptyBody is returned when a message is empty after sanitizing.
var ErrEmptyBody = errors.New("message body is empty")

// Notice is a one-shot system send outside of a group batch.
type Notice struct {
	To          string // E.164 destination
	From        string // sender number, the engine default when empty
	SenderID    string // SenderSystem or SenderWelcome
	RecipientID uint   // 0 when the notice goes to a user
	Body        string
}

// Engine sends texts through a gateway and writes the delivery log.
type Engine struct {
	db          *gorm.DB
	gw          gateway.Gateway
	timeout     time.Duration
	defaultFrom string
}

// New creates an engine. timeout bounds every single gateway call,
// defaultFrom is used when a corps has no phone of its own.
func New(db *gorm.DB, gw gateway.Gateway, timeout time.Duration, defaultFrom string) *Engine {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Engine{db: db, gw: gw, timeout: timeout, defaultFrom: defaultFrom}
}

// Send dispatches body to every entry in order. Failed sends are collected
// in the result and do not stop the batch. The returned error is only set
// when the caller may not send, the body is empty, or the delivery log
// could not be written; in the last case the partial result is returned too.
func (e *Engine) Send(
	ctx context.Context,
	caller gate.Caller,
	groupID uint,
	entries []models.RosterEntry,
	body string,
) (*Result, error) {
	if err := caller.Require(gate.CapSend); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	from := e.from(caller.CorpsPhone)
	res := &Result{GroupID: groupID}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			for _, rest := range entries[i:] {
				res.Failed = append(res.Failed, Failure{Entry: rest, Err: err})
			}

			break
		}

		id, err := e.send(ctx, entry.Phone, from, body)
		if err != nil {
			sendsTotal.WithLabelValues(kindBatch, outcomeFailed).Inc()
			res.Failed = append(res.Failed, Failure{Entry: entry, Err: err})

			log.Warn().Err(err).
				Str("sender", caller.UserID).
				Uint("group", groupID).
				Uint("recipient", entry.RecipientID).
				Msg("send failed, continuing with next recipient")

			continue
		}

		sendsTotal.WithLabelValues(kindBatch, outcomeSent).Inc()
		res.Sent = append(res.Sent, entry)

		_, err = message.Add(e.db.WithContext(ctx), models.Message{
			GatewayMessageID: id,
			SenderID:         caller.UserID,
			RecipientID:      entry.RecipientID,
			GroupID:          groupID,
			Body:             body,
		})
		if err != nil {
			log.Error().Err(err).
				Str("gateway_id", id).
				Uint("group", groupID).
				Uint("recipient", entry.RecipientID).
				Msg("message was sent but could not be logged, aborting batch")

			return res, err
		}
	}

	if err := res.Err(); err != nil {
		log.Warn().Err(err).Str("sender", caller.UserID).Uint("group", groupID).Msg("dispatch incomplete")
	}

	log.Info().
		Str("sender", caller.UserID).
		Uint("group", groupID).
		Int("sent", len(res.Sent)).
		Int("failed", len(res.Failed)).
		Msg("dispatch finished")

	return res, nil
}

// Notify sends one system text and logs it with group 0. It returns the gateway message id.
func (e *Engine) Notify(ctx context.Context, n Notice) (string, error) {
	body := strings.TrimSpace(n.Body)
	if body == "" {
		return "", ErrEmptyBody
	}

	id, err := e.send(ctx, n.To, e.from(n.From), body)
	if err != nil {
		sendsTotal.WithLabelValues(kindNotice, outcomeFailed).Inc()
		return "", err
	}

	sendsTotal.WithLabelValues(kindNotice, outcomeSent).Inc()

	_, err = message.Add(e.db.WithContext(ctx), models.Message{
		GatewayMessageID: id,
		SenderID:         n.SenderID,
		RecipientID:      n.RecipientID,
		Body:             body,
	})

	return id, err
}

// Lookup validates a phone number through the gateway.
func (e *Engine) Lookup(ctx context.Context, raw string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.gw.Lookup(ctx, raw)
}

func (e *Engine) send(ctx context.Context, to, from, body string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.gw.Send(ctx, to, from, body)
}

func (e *Engine) from(corpsPhone string) string {
	if corpsPhone != "" {
		return corpsPhone
	}

	return e.defaultFrom
}
