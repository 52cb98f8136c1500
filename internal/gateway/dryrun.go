package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/satext/satext/internal/phone"
)

// DryRun validates numbers locally with libphonenumber and only logs sends.
type DryRun struct {
	region string
}

// NewDryRun creates a dry-run driver. region is the default region for
// numbers without a country code.
func NewDryRun(region string) *DryRun {
	if region == "" {
		region = "US"
	}

	return &DryRun{region: region}
}

// Send logs the message and returns a synthetic id.
func (d *DryRun) Send(ctx context.Context, to, from, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := d.Lookup(ctx, to); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRejected, err)
	}

	id := "DR" + uuid.NewString()

	log.Info().
		Str("id", id).
		Str("to", to).
		Str("from", from).
		Int("length", len(body)).
		Msg("dry-run send")

	return id, nil
}

// Lookup parses raw in the default region and returns its E.164 form.
func (d *DryRun) Lookup(_ context.Context, raw string) (string, error) {
	e164, err := phone.Parse(raw, d.region)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}

	return e164, nil
}
