// Package roster resolves a corps scoped group to its current recipients.
package roster

import (
	"context"

	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/group"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/gate"
)

// Resolve returns the members of groupID in store order. The group must be
// active and belong to the caller's corps, otherwise dberr.ErrNotFound is
// returned. Client supplied group ids are checked here on every send.
func Resolve(ctx context.Context, db *gorm.DB, caller gate.Caller, groupID uint) ([]models.RosterEntry, error) {
	if err := caller.Require(gate.CapSend); err != nil {
		return nil, err
	}

	tx := db.WithContext(ctx)

	if _, err := group.GetActive(tx, groupID, caller.CorpsID); err != nil {
		return nil, err
	}

	entries, err := group.Recipients(tx, groupID)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []models.RosterEntry{}
	}

	return entries, nil
}
