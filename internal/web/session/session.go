// Package session keeps server side session data behind a random session
// cookie. Only the user id is stored; the user itself is read from the store
// on every request.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	statePrefix = "oidc_state:"
	stateTTL    = 5 * time.Minute

	localsKey = "session"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

var (
	// Store is the global session store instance.
	Store *session.Store

	expiry time.Duration

	// ErrNoSession is returned when no data exists for a session id.
	ErrNoSession = errors.New("no session")
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind string
	Text string
}

// Data represents the session data structure.
type Data struct {
	UserID  string
	Flashes []Flash
	// AwaitingApproval is set while the user saw the approval pending page.
	// The first request after approval turns it into a flash.
	AwaitingApproval bool
}

// Init initializes the session store. A nil storage selects fiber's
// in-memory storage.
func Init(storage fiber.Storage, exp time.Duration) {
	Store = session.New(session.Config{
		Storage:    storage,
		Expiration: exp,
	})

	expiry = exp
}

// Write writes the session data for the given session ID.
func (s *Data) Write(sessionID string) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, expiry)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrNoSession
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session data.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID)
}

// AddFlash queues a flash for the next rendered page.
func (s *Data) AddFlash(kind, text string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Text: text})
}

// PopFlashes returns and clears the queued flashes.
func (s *Data) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil

	return out
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// Cookie returns the session cookie for id. maxAge -1 clears it.
func Cookie(id string, maxAge int, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		MaxAge:   maxAge,
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Expiry returns the configured session lifetime.
func Expiry() time.Duration {
	return expiry
}

// SaveState remembers an OIDC state token for five minutes.
func SaveState(state string) error {
	return Store.Storage.Set(statePrefix+state, []byte{1}, stateTTL)
}

// ConsumeState reports whether state was issued and removes it.
func ConsumeState(state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	v, err := Store.Storage.Get(statePrefix + state)
	if err != nil {
		return false, err
	}

	if len(v) == 0 {
		return false, nil
	}

	return true, Store.Storage.Delete(statePrefix + state)
}

type attached struct {
	id   string
	data *Data
}

// Attach makes the session of the current request available to handlers.
func Attach(c *fiber.Ctx, id string, data *Data) {
	c.Locals(localsKey, &attached{id: id, data: data})
}

// FromContext returns the session of the current request, nil when there is none.
func FromContext(c *fiber.Ctx) *Data {
	if a, ok := c.Locals(localsKey).(*attached); ok {
		return a.data
	}

	return nil
}

// Save writes the session of the current request back to the store.
func Save(c *fiber.Ctx) error {
	a, ok := c.Locals(localsKey).(*attached)
	if !ok {
		return ErrNoSession
	}

	return a.data.Write(a.id)
}

// AddFlash queues a flash on the session of the current request and saves it.
func AddFlash(c *fiber.Ctx, kind, text string) error {
	data := FromContext(c)
	if data == nil {
		return ErrNoSession
	}

	data.AddFlash(kind, text)

	return Save(c)
}
