package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	lookups "github.com/twilio/twilio-go/rest/lookups/v2"

	"github.com/satext/satext/internal/config"
)

// Twilio sends through the Twilio REST API and validates numbers with Lookups v2.
type Twilio struct {
	client *twilio.RestClient
	region string
}

// NewTwilio creates a Twilio driver from the account credentials in cfg.
func NewTwilio(cfg config.Gateway) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, config.ErrGatewayCredentialsMissing
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	if cfg.SendTimeout > 0 {
		client.SetTimeout(cfg.SendTimeout)
	}

	return &Twilio{client: client, region: cfg.Region}, nil
}

// Send creates one outbound message.
func (t *Twilio) Send(ctx context.Context, to, from, body string) (string, error) {
	if t == nil || t.client == nil {
		return "", ErrClientNotInitialized
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := call(ctx, func() (*openapi.ApiV2010Message, error) {
		return t.client.Api.CreateMessage(params)
	})
	if err != nil {
		return "", classify(err)
	}

	if resp == nil || resp.Sid == nil {
		return "", fmt.Errorf("%w: empty response", ErrRejected)
	}

	return *resp.Sid, nil
}

// Lookup validates raw with the default region and returns the E.164 form.
func (t *Twilio) Lookup(ctx context.Context, raw string) (string, error) {
	if t == nil || t.client == nil {
		return "", ErrClientNotInitialized
	}

	params := &lookups.FetchPhoneNumberParams{}
	if t.region != "" {
		params.SetCountryCode(t.region)
	}

	resp, err := call(ctx, func() (*lookups.LookupsV2PhoneNumber, error) {
		return t.client.LookupsV2.FetchPhoneNumber(raw, params)
	})
	if err != nil {
		err = classify(err)
		if errors.Is(err, ErrRejected) {
			return "", fmt.Errorf("%w: %w", ErrInvalidNumber, err)
		}

		return "", err
	}

	if resp == nil || resp.Valid == nil || !*resp.Valid || resp.PhoneNumber == nil {
		return "", ErrInvalidNumber
	}

	return *resp.PhoneNumber, nil
}

// call runs fn and gives up when ctx is done. The twilio client has no
// context support, a late result is dropped.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	done := make(chan result, 1)

	go func() {
		v, err := fn()
		done <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

// classify marks client errors (4xx) as rejections. Server errors and
// transport failures stay as they are.
func classify(err error) error {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) && restErr.Status < 500 {
		return fmt.Errorf("%w: %d %s", ErrRejected, restErr.Code, restErr.Message)
	}

	return err
}
