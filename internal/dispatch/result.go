package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satext/satext/internal/db/models"
)

// ErrPartialFailure matches every *PartialFailure.
var ErrPartialFailure = errors.New("dispatch partially failed")

// Nobody is the summary of a batch without a single successful send.
const Nobody = "(nobody)"

// Failure is one roster entry the gateway did not accept.
type Failure struct {
	Entry models.RosterEntry
	Err   error
}

// Result is the outcome of one dispatch batch.
type Result struct {
	GroupID uint
	Sent    []models.RosterEntry
	Failed  []Failure
}

// Summary joins the names of the successful sends for the confirmation message.
func (r *Result) Summary() string {
	if r == nil || len(r.Sent) == 0 {
		return Nobody
	}

	names := make([]string, 0, len(r.Sent))
	for _, e := range r.Sent {
		names = append(names, e.Name)
	}

	return strings.Join(names, ", ")
}

// Attempted is the number of entries a send was tried for.
func (r *Result) Attempted() int {
	if r == nil {
		return 0
	}

	return len(r.Sent) + len(r.Failed)
}

// Err returns a *PartialFailure when any send failed, nil otherwise.
func (r *Result) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}

	return &PartialFailure{Failed: r.Failed, Attempted: r.Attempted()}
}

// PartialFailure reports the failed sends of a batch that otherwise completed.
type PartialFailure struct {
	Failed    []Failure
	Attempted int
}

func (p *PartialFailure) Error() string {
	names := make([]string, 0, len(p.Failed))
	for _, f := range p.Failed {
		names = append(names, f.Entry.Name)
	}

	return fmt.Sprintf("%d of %d sends failed: %s", len(p.Failed), p.Attempted, strings.Join(names, ", "))
}

// Is lets errors.Is match ErrPartialFailure.
func (p *PartialFailure) Is(target error) bool {
	return target == ErrPartialFailure
}
