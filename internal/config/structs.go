package config

import (
	"time"

	"github.com/satext/satext/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool   // enable dev mode for development
	Title     string // organization name used in page titles and outgoing texts
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
	Gateway   Gateway
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover      bool    // disable recover middleware
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver, used in outgoing texts and redirects
	CookieEncryptionKey string  // base64 key for the encryptcookie middleware, empty disables it
	Session             Session // session settings
}

// OIDC holds the OpenID Connect client registration.
type OIDC struct {
	ProviderURL  string // discovery URL, defaults to Google
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Auth holds sign-in settings.
type Auth struct {
	OIDC OIDC
	// AdminEmails are promoted to administrators on their first sign-in.
	AdminEmails []string
}

// Gateway configures the outbound messaging gateway.
type Gateway struct {
	Driver      string // "twilio" or "dryrun"
	AccountSID  string
	AuthToken   string
	From        string        // fallback sender number when a corps has none
	Region      string        // default region for number validation, e.g. "US"
	SendTimeout time.Duration // upper bound for a single gateway call
}

// SeedCorps is a corps provisioned by init-db.
type SeedCorps struct {
	ID    uint
	Name  string
	Phone string
}

// SeedDivision is a division provisioned by init-db together with its corps.
type SeedDivision struct {
	ID    uint
	Name  string
	Corps []SeedCorps
}

// Seed holds the out-of-band provisioned organization tree.
type Seed struct {
	Division []SeedDivision
}
