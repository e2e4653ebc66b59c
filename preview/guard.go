package preview

import (
	"sync/atomic"

	"github.com/fwojciec/linkpreview"
)

// Guard enforces that an operation runs at most once. The zero value is
// unused and ready to use.
type Guard struct {
	used atomic.Bool
}

// RecordCall marks the guard as used. Exactly one caller ever succeeds;
// every other call returns linkpreview.ErrAlreadyCalled.
func (g *Guard) RecordCall() error {
	if !g.used.CompareAndSwap(false, true) {
		return linkpreview.ErrAlreadyCalled
	}
	return nil
}

// Used reports whether RecordCall has succeeded.
func (g *Guard) Used() bool {
	return g.used.Load()
}
