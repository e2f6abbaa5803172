package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock stamps board changes with this session's id and a revision that only
// goes up. Viewers use the pair to discard stale snapshots.
type Clock struct {
	site     string
	revision atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

func (c *Clock) Site() string { return c.site }

// Next advances and returns the revision.
func (c *Clock) Next() uint64 { return c.revision.Add(1) }

// Revision returns the last issued revision.
func (c *Clock) Revision() uint64 { return c.revision.Load() }
