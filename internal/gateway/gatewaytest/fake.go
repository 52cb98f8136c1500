// Package gatewaytest provides an in-memory gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/satext/satext/internal/gateway"
	"github.com/satext/satext/internal/phone"
)

// Sent is one message accepted by the Fake.
type Sent struct {
	ID   string
	To   string
	From string
	Body string
}

// Fake records every send. Numbers listed in Fail are rejected.
type Fake struct {
	mu   sync.Mutex
	sent []Sent
	seq  int

	// Fail holds destination numbers whose sends are rejected.
	Fail map[string]bool
}

// New creates a Fake that rejects the given numbers.
func New(fail ...string) *Fake {
	f := &Fake{Fail: map[string]bool{}}
	for _, n := range fail {
		f.Fail[n] = true
	}

	return f
}

// Send records the message unless to is in Fail.
func (f *Fake) Send(ctx context.Context, to, from, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Fail[to] {
		return "", fmt.Errorf("%w: %s", gateway.ErrRejected, to)
	}

	f.seq++
	id := fmt.Sprintf("SM%04d", f.seq)
	f.sent = append(f.sent, Sent{ID: id, To: to, From: from, Body: body})

	return id, nil
}

// Lookup accepts ten digit numbers, eleven digit numbers starting with 1,
// and explicit +country numbers of 8 to 15 digits.
func (f *Fake) Lookup(_ context.Context, raw string) (string, error) {
	d := phone.Digits(raw)

	switch {
	case strings.HasPrefix(strings.TrimSpace(raw), "+") && len(d) >= 8 && len(d) <= 15:
		return "+" + d, nil
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && d[0] == '1':
		return "+" + d, nil
	default:
		return "", gateway.ErrInvalidNumber
	}
}

// Sent returns a copy of the recorded messages.
func (f *Fake) Sent() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Sent(nil), f.sent...)
}
