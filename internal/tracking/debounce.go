package tracking

import (
	"math"
	"time"
)

// Debounce collapses repeated deliveries of one physical click. A new event
// is a duplicate when it is within Radius pixels of the last accepted event
// and arrives less than Window after it.
type Debounce struct {
	Radius float64
	Window time.Duration
}

// DebounceState remembers the last accepted click. Rejected events never
// change it, so a burst of duplicates cannot stretch the window.
type DebounceState struct {
	X    int
	Y    int
	Time time.Time

	seen bool
}

// Accept decides whether ev is a new click and returns the state to carry
// forward. It has no side effects.
func (d Debounce) Accept(state DebounceState, ev ClickEvent) (DebounceState, bool) {
	if state.seen {
		dist := math.Hypot(float64(ev.X-state.X), float64(ev.Y-state.Y))
		elapsed := ev.Time.Sub(state.Time)
		if dist < d.Radius && elapsed < d.Window {
			return state, false
		}
	}
	return DebounceState{X: ev.X, Y: ev.Y, Time: ev.Time, seen: true}, true
}
