package matcher

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Stats is a point-in-time copy of an engine's counters.
type Stats struct {
	// Scans counts documents scanned
	Scans uint64

	// Matches counts matches reported
	Matches uint64

	// BacktrackScans counts scans executed by the bounded backtracker
	BacktrackScans uint64

	// PikeVMScans counts scans executed by the PikeVM
	PikeVMScans uint64

	// CallbackErrors counts callbacks that returned an error
	CallbackErrors uint64

	// Rebuilds counts snapshot compilations
	Rebuilds uint64
}

// counters are updated from concurrent scans. The two hottest counters
// sit on their own cache lines.
type counters struct {
	scans atomic.Uint64
	_     cpu.CacheLinePad

	matches atomic.Uint64
	_       cpu.CacheLinePad

	backtrack      atomic.Uint64
	pikevm         atomic.Uint64
	callbackErrors atomic.Uint64
	rebuilds       atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Scans:          c.scans.Load(),
		Matches:        c.matches.Load(),
		BacktrackScans: c.backtrack.Load(),
		PikeVMScans:    c.pikevm.Load(),
		CallbackErrors: c.callbackErrors.Load(),
		Rebuilds:       c.rebuilds.Load(),
	}
}

func (c *counters) reset() {
	c.scans.Store(0)
	c.matches.Store(0)
	c.backtrack.Store(0)
	c.pikevm.Store(0)
	c.callbackErrors.Store(0)
	c.rebuilds.Store(0)
}
