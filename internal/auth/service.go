package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/controller/user"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/gateway"
	"github.com/satext/satext/internal/phone"
)

// Messenger is the part of the dispatch engine the workflow needs.
type Messenger interface {
	Notify(ctx context.Context, n dispatch.Notice) (string, error)
	Lookup(ctx context.Context, raw string) (string, error)
}

// Config holds the values used in workflow texts.
type Config struct {
	// Title is the organization name.
	Title string
	// URL is the public base url of the application.
	URL string
	// AdminEmails are promoted to admins when they sign in.
	AdminEmails []string
}

// Service runs the sign in and approval workflow.
type Service struct {
	db        *gorm.DB
	messenger Messenger
	cfg       Config
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, messenger Messenger, cfg Config) *Service {
	cfg.URL = strings.TrimSuffix(cfg.URL, "/")

	return &Service{db: db, messenger: messenger, cfg: cfg}
}

// ApprovedText is sent to a user after approval.
func ApprovedText(name, title, url string) string {
	return fmt.Sprintf("Welcome %s! You are now approved to send %s text messages. Start now at %s.", name, title, url)
}

// ApprovalRequestText is sent to the admins when a user waits for approval.
func ApprovalRequestText(name, email, corpsName, url string) string {
	return fmt.Sprintf("%s (%s) of %s is waiting for approval: %s/admin/approvals", name, email, corpsName, url)
}

// Login returns the user for a verified identity and creates it on the first sign in.
func (s *Service) Login(ctx context.Context, id Identity) (*models.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)

	u, err := user.Get(tx, id.ExternalID)
	if err != nil {
		return nil, err
	}

	if u == nil {
		u, err = user.Create(tx, models.User{
			ID:         id.ExternalID,
			Name:       id.Name,
			Email:      id.Email,
			ProfilePic: id.AvatarURL,
		})

		switch {
		case errors.Is(err, dberr.ErrConflict):
			// a concurrent first sign in won the race
			if u, err = user.Get(tx, id.ExternalID); err == nil && u == nil {
				err = ErrUserNotFound
			}
		case err == nil:
			log.Info().Str("user", u.ID).Str("email", u.Email).Msg("user created on first sign in")
		}

		if err != nil {
			return nil, err
		}
	}

	if !u.IsAdmin && s.isAdminEmail(u.Email) {
		if err = user.SetAdmin(tx, u.ID, true); err != nil {
			return nil, err
		}

		u.IsAdmin = true

		log.Info().Str("user", u.ID).Msg("user promoted to admin")
	}

	return u, nil
}

// Caller rebuilds the caller of a session from the store.
func (s *Service) Caller(ctx context.Context, userID string) (gate.Caller, error) {
	u, err := user.Get(s.db.WithContext(ctx), userID)
	if err != nil {
		return gate.Caller{}, err
	}

	if u == nil {
		return gate.Caller{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	return gate.NewCaller(*u, u.Corps), nil
}

// LinkCorps links an unlinked caller to a corps and returns the corps name.
func (s *Service) LinkCorps(ctx context.Context, caller gate.Caller, corpsID uint) (string, error) {
	if err := caller.Require(gate.CapSelectCorps); err != nil {
		return "", err
	}

	name, err := user.LinkCorps(s.db.WithContext(ctx), caller.UserID, corpsID)
	if err != nil {
		return "", err
	}

	log.Info().Str("user", caller.UserID).Uint("corps", corpsID).Msg("user linked to corps")

	return name, nil
}

// RequestApproval notifies every admin with a phone that the caller waits
// for approval. Only the first call per user sends; it reports whether it did.
func (s *Service) RequestApproval(ctx context.Context, caller gate.Caller) (bool, error) {
	if err := caller.Require(gate.CapViewPending); err != nil {
		return false, err
	}

	tx := s.db.WithContext(ctx)

	first, err := user.MarkApprovalRequested(tx, caller.UserID)
	if err != nil || !first {
		return false, err
	}

	admins, err := user.Admins(tx)
	if err != nil {
		return true, err
	}

	body := ApprovalRequestText(caller.Name, caller.Email, caller.CorpsName, s.cfg.URL)

	for _, admin := range admins {
		if admin.Phone == "" {
			continue
		}

		_, err = s.messenger.Notify(ctx, dispatch.Notice{
			To:       phone.E164(admin.Phone),
			From:     caller.CorpsPhone,
			SenderID: dispatch.SenderSystem,
			Body:     body,
		})
		if err != nil {
			log.Warn().Err(err).Str("admin", admin.ID).Str("user", caller.UserID).Msg("approval request notice failed")
		}
	}

	return true, nil
}

// Pending lists the users waiting for approval.
func (s *Service) Pending(ctx context.Context, caller gate.Caller) ([]user.Pending, error) {
	if err := caller.Require(gate.CapApprove); err != nil {
		return nil, err
	}

	return user.Unapproved(s.db.WithContext(ctx))
}

// Approve approves a user and texts it a welcome when it has a phone.
// A failing welcome is logged, the approval stands.
func (s *Service) Approve(ctx context.Context, caller gate.Caller, userID string) (*models.User, error) {
	if err := caller.Require(gate.CapApprove); err != nil {
		return nil, err
	}

	u, err := user.Approve(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("admin", caller.UserID).Str("user", u.ID).Msg("user approved")

	if u.Phone == "" {
		log.Info().Str("user", u.ID).Msg("approved user has no phone, skipping welcome")
		return u, nil
	}

	var from string
	if u.Corps != nil {
		from = u.Corps.Phone
	}

	_, err = s.messenger.Notify(ctx, dispatch.Notice{
		To:       phone.E164(u.Phone),
		From:     from,
		SenderID: dispatch.SenderWelcome,
		Body:     ApprovedText(u.Name, s.cfg.Title, s.cfg.URL),
	})
	if err != nil {
		log.Warn().Err(err).Str("user", u.ID).Msg("welcome text failed")
	}

	return u, nil
}

// UpdatePhone validates and stores the caller's own phone. It returns the E.164 form.
func (s *Service) UpdatePhone(ctx context.Context, caller gate.Caller, raw string) (string, error) {
	e164, err := s.messenger.Lookup(ctx, raw)
	if errors.Is(err, gateway.ErrInvalidNumber) {
		return "", fmt.Errorf("%w: %w", ErrInvalidPhone, err)
	}

	if err != nil {
		return "", fmt.Errorf("phone lookup: %w", err)
	}

	if err = user.UpdatePhone(s.db.WithContext(ctx), caller.UserID, phone.National(e164)); err != nil {
		return "", err
	}

	return e164, nil
}

func (s *Service) isAdminEmail(email string) bool {
	for _, e := range s.cfg.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}

	return false
}
