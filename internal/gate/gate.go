// Package gate decides from a caller snapshot what the caller may do.
//
// Every decision is made on a Caller built from a fresh store read for the
// current request. Nothing here touches the store.
package gate

import (
	"errors"
	"fmt"

	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/phone"
)

// ErrForbidden is returned by Require when the caller lacks a capability.
var ErrForbidden = errors.New("forbidden")

// State is the position of a caller in the approval workflow.
type State string

// Workflow states.
const (
	Unlinked         State = "UNLINKED"
	LinkedUnapproved State = "LINKED_UNAPPROVED"
	LinkedApproved   State = "LINKED_APPROVED"
	Admin            State = "ADMIN"
)

// Caller is the authenticated identity passed to every guarded operation.
type Caller struct {
	UserID     string
	Name       string
	Email      string
	Phone      string
	CorpsID    uint
	CorpsName  string
	CorpsPhone string
	IsAdmin    bool
	IsApproved bool
}

// NewCaller builds a caller from a user row and its corps. c may be nil for
// unlinked users.
func NewCaller(u models.User, c *models.Corps) Caller {
	caller := Caller{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      phone.E164(u.Phone),
		IsAdmin:    u.IsAdmin,
		IsApproved: u.IsApproved,
	}

	if u.Linked() {
		caller.CorpsID = *u.CorpsID
	}

	if c != nil && c.ID == caller.CorpsID {
		caller.CorpsName = c.Name
		caller.CorpsPhone = c.Phone
	}

	return caller
}

// Evaluate returns the workflow state of the caller.
func Evaluate(c Caller) State {
	switch {
	case c.CorpsID == 0:
		return Unlinked
	case !c.IsApproved:
		return LinkedUnapproved
	case c.IsAdmin:
		return Admin
	default:
		return LinkedApproved
	}
}

// State is a shorthand for Evaluate(c).
func (c Caller) State() State {
	return Evaluate(c)
}

// Can reports whether the caller holds the capability.
func (c Caller) Can(capability Capability) bool {
	state := c.State()

	switch capability {
	case CapSend, CapManage:
		return state == LinkedApproved || state == Admin
	case CapApprove:
		return c.IsAdmin
	case CapSelectCorps:
		return state == Unlinked
	case CapViewPending:
		return state == LinkedUnapproved
	default:
		return false
	}
}

// Require returns ErrForbidden unless the caller holds the capability.
func (c Caller) Require(capability Capability) error {
	if c.Can(capability) {
		return nil
	}

	return fmt.Errorf("%w: %s lacks %s in state %s", ErrForbidden, c.UserID, capability, c.State())
}
