package interact

import (
	"sync"
	"sync/atomic"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

// RevealCounters holds one counter per cell, counting the in-flight reveal
// operations that visually press the cell. Counters from overlapping
// operations stack; a cell stays armed until the last one releases.
type RevealCounters struct {
	geom   board.Geometry
	counts []atomic.Int32
}

func NewRevealCounters(geom board.Geometry) *RevealCounters {
	return &RevealCounters{
		geom:   geom,
		counts: make([]atomic.Int32, geom.CellCount()),
	}
}

// Acquire increments the counter of every cell in the set and returns the
// paired release. The release is safe to call from any goroutine and runs at
// most once, so completion handlers can invoke it unconditionally whether
// the operation succeeded, was rejected or was cancelled.
func (c *RevealCounters) Acquire(set []board.Point) (release func()) {
	for _, p := range set {
		c.counts[c.geom.Index(p)].Add(1)
	}
	return sync.OnceFunc(func() {
		for _, p := range set {
			c.counts[c.geom.Index(p)].Add(-1)
		}
	})
}

func (c *RevealCounters) Count(p board.Point) int {
	return int(c.counts[c.geom.Index(p)].Load())
}
