package autosave

import (
	"time"

	"github.com/bep/debounce"
)

// Autosaver coalesces bursts of edits into a single save request. The save
// itself is left to whoever reads Requests, so the chart is only ever
// touched from the main loop.
type Autosaver struct {
	debounced func(f func())
	requests  chan struct{}
}

func New(after time.Duration) *Autosaver {
	return &Autosaver{
		debounced: debounce.New(after),
		requests:  make(chan struct{}, 1),
	}
}

// Touch records an edit. A request is sent once no edit has been seen for
// the configured delay.
func (a *Autosaver) Touch() {
	a.debounced(a.request)
}

func (a *Autosaver) request() {
	select {
	case a.requests <- struct{}{}:
	default:
		// one is already waiting
	}
}

func (a *Autosaver) Requests() <-chan struct{} {
	return a.requests
}
