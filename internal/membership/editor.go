// Package membership maintains recipients and their group memberships.
package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/controller/group"
	"github.com/satext/satext/internal/db/controller/recipient"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/gateway"
	"github.com/satext/satext/internal/phone"
)

var (
	// ErrInvalidPhone is returned when the gateway can not validate a phone number.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrEmptyName is returned for recipient or group names that are empty after sanitizing.
	ErrEmptyName = errors.New("name must not be empty")
)

// Messenger is the part of the dispatch engine the editor needs.
type Messenger interface {
	Notify(ctx context.Context, n dispatch.Notice) (string, error)
	Lookup(ctx context.Context, raw string) (string, error)
}

// Config holds the values used in the recipient welcome text.
type Config struct {
	// Title is the organization name.
	Title string
	// Region is the default region of numbers typed without a country code.
	Region string
}

// Editor creates and edits recipients and groups of the caller's corps.
type Editor struct {
	db        *gorm.DB
	messenger Messenger
	cfg       Config
}

// NewEditor creates an editor.
func NewEditor(db *gorm.DB, messenger Messenger, cfg Config) *Editor {
	return &Editor{db: db, messenger: messenger, cfg: cfg}
}

// WelcomeText is sent to every new recipient.
func WelcomeText(name, title string) string {
	return fmt.Sprintf("Welcome %s! You've been added to a group for %s text messages. "+
		"If you have questions, talk to your corps officers. Text 'STOP' to cancel messages.", name, title)
}

// CreateRecipient validates the phone, stores the recipient and texts it a
// welcome. A failing welcome is logged; the recipient stays created.
func (e *Editor) CreateRecipient(ctx context.Context, caller gate.Caller, name, rawPhone string) (uint, error) {
	if err := caller.Require(gate.CapManage); err != nil {
		return 0, err
	}

	name = cleanName(name)
	if name == "" {
		return 0, ErrEmptyName
	}

	e164, err := e.lookup(ctx, rawPhone)
	if err != nil {
		return 0, err
	}

	id, err := recipient.Create(e.db.WithContext(ctx), name, phone.National(e164), caller.CorpsID)
	if err != nil {
		return 0, err
	}

	log.Info().Str("user", caller.UserID).Uint("recipient", id).Uint("corps", caller.CorpsID).Msg("recipient created")

	_, err = e.messenger.Notify(ctx, dispatch.Notice{
		To:          e164,
		From:        caller.CorpsPhone,
		SenderID:    dispatch.SenderWelcome,
		RecipientID: id,
		Body:        WelcomeText(name, e.cfg.Title),
	})
	if err != nil {
		log.Warn().Err(err).Uint("recipient", id).Msg("welcome text failed")
	}

	return id, nil
}

// UpdateRecipient writes name and phone when either changed. The phone is
// only validated again when its digits changed. It reports whether a write
// happened.
func (e *Editor) UpdateRecipient(ctx context.Context, caller gate.Caller, id uint, name, rawPhone string) (bool, error) {
	if err := caller.Require(gate.CapManage); err != nil {
		return false, err
	}

	tx := e.db.WithContext(ctx)

	current, err := recipient.Get(tx, id, caller.CorpsID)
	if err != nil {
		return false, err
	}

	name = cleanName(name)
	if name == "" {
		return false, ErrEmptyName
	}

	stored := current.Phone
	if !phone.SameNumber(phone.E164(current.Phone), rawPhone, e.cfg.Region) {
		e164, errLookup := e.lookup(ctx, rawPhone)
		if errLookup != nil {
			return false, errLookup
		}

		stored = phone.National(e164)
	}

	if name == current.Name && stored == current.Phone {
		return false, nil
	}

	if err = recipient.Update(tx, id, name, stored); err != nil {
		return false, err
	}

	return true, nil
}

// ReplaceGroups replaces all memberships of a recipient with groupIDs in one
// transaction. Ids that are not active groups of the caller's corps and
// single failing inserts are logged and skipped. It returns the assigned ids.
func (e *Editor) ReplaceGroups(ctx context.Context, caller gate.Caller, recipientID uint, groupIDs []uint) ([]uint, error) {
	if err := caller.Require(gate.CapManage); err != nil {
		return nil, err
	}

	if _, err := recipient.Get(e.db.WithContext(ctx), recipientID, caller.CorpsID); err != nil {
		return nil, err
	}

	assigned := make([]uint, 0, len(groupIDs))

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recipient.ClearGroups(tx, recipientID); err != nil {
			return err
		}

		seen := make(map[uint]bool, len(groupIDs))

		for _, gid := range groupIDs {
			if seen[gid] {
				continue
			}

			seen[gid] = true

			if _, err := group.GetActive(tx, gid, caller.CorpsID); err != nil {
				if errors.Is(err, dberr.ErrNotFound) {
					log.Warn().Uint("recipient", recipientID).Uint("group", gid).Msg("skipping group outside of corps")
					continue
				}

				return err
			}

			// nested transactions run in a savepoint, a failing insert does not poison the outer one
			err := tx.Transaction(func(sp *gorm.DB) error {
				return recipient.AssignGroup(sp, recipientID, gid)
			})
			if err != nil {
				log.Warn().Err(err).Uint("recipient", recipientID).Uint("group", gid).Msg("group assignment failed, skipping")
				continue
			}

			assigned = append(assigned, gid)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return assigned, nil
}

// AddGroup creates a group in the caller's corps.
func (e *Editor) AddGroup(ctx context.Context, caller gate.Caller, name string) (*models.Group, error) {
	if err := caller.Require(gate.CapManage); err != nil {
		return nil, err
	}

	name = cleanName(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return group.Add(e.db.WithContext(ctx), name, caller.CorpsID)
}

// RetireGroup soft deletes a group of the caller's corps.
func (e *Editor) RetireGroup(ctx context.Context, caller gate.Caller, groupID uint) error {
	if err := caller.Require(gate.CapManage); err != nil {
		return err
	}

	return group.Retire(e.db.WithContext(ctx), groupID, caller.CorpsID)
}

func (e *Editor) lookup(ctx context.Context, raw string) (string, error) {
	e164, err := e.messenger.Lookup(ctx, raw)
	if errors.Is(err, gateway.ErrInvalidNumber) {
		return "", fmt.Errorf("%w: %w", ErrInvalidPhone, err)
	}

	if err != nil {
		return "", fmt.Errorf("phone lookup: %w", err)
	}

	return e164, nil
}
