package engine

import "time"

type InputKind int

const (
	// InputTap is a pointer tap or click anywhere on the counting surface.
	InputTap InputKind = iota
	// InputKey is the space bar.
	InputKey
	// InputWheel is a mouse-wheel flick; Delta carries signed notches,
	// negative meaning a flick up.
	InputWheel
	// InputSwipe is an upward drag; Delta carries signed rows, negative
	// meaning upward.
	InputSwipe
)

type Input struct {
	Kind  InputKind
	Delta float64
}

const (
	// DefaultTransitionCooldown matches the sentence fade; input during it
	// is dropped, not queued.
	DefaultTransitionCooldown = 250 * time.Millisecond
	// DefaultGestureCooldown keeps one continuous scroll or drag motion
	// from firing a burst of ticks.
	DefaultGestureCooldown = 600 * time.Millisecond

	DefaultWheelThreshold = 1 // notches
	DefaultSwipeThreshold = 2 // rows
)

// Gate coalesces raw input events into single ticks. The transition lock is
// taken synchronously inside Offer, before any other work, so two events
// arriving back to back can never both pass.
type Gate struct {
	TransitionCooldown time.Duration
	GestureCooldown    time.Duration
	WheelThreshold     float64
	SwipeThreshold     float64

	now func() time.Time

	lockedUntil time.Time
	lastGesture time.Time
	overlay     bool
	textEntry   bool
}

func NewGate() *Gate {
	return &Gate{
		TransitionCooldown: DefaultTransitionCooldown,
		GestureCooldown:    DefaultGestureCooldown,
		WheelThreshold:     DefaultWheelThreshold,
		SwipeThreshold:     DefaultSwipeThreshold,
		now:                time.Now,
	}
}

// SetOverlay suppresses all ticks while a stats or management overlay is
// open.
func (g *Gate) SetOverlay(open bool) {
	g.overlay = open
}

// SetTextEntry suppresses key ticks while focus is inside a text field, so
// typing a space does not advance the counter.
func (g *Gate) SetTextEntry(active bool) {
	g.textEntry = active
}

// Transitioning reports whether the post-tick cooldown is still in flight.
func (g *Gate) Transitioning() bool {
	return g.now().Before(g.lockedUntil)
}

// Unlock clears the transition lock. Explicit resets (filter or length
// changes) supersede an in-flight cooldown rather than queueing behind it.
func (g *Gate) Unlock() {
	g.lockedUntil = time.Time{}
}

// Offer reports whether the raw event becomes a tick, and if so takes the
// transition lock.
func (g *Gate) Offer(in Input) bool {
	now := g.now()

	if g.overlay {
		return false
	}
	if now.Before(g.lockedUntil) {
		return false
	}

	switch in.Kind {
	case InputKey:
		if g.textEntry {
			return false
		}
	case InputWheel:
		if in.Delta > -g.WheelThreshold {
			return false
		}
		if now.Sub(g.lastGesture) < g.GestureCooldown {
			return false
		}
		g.lastGesture = now
	case InputSwipe:
		if in.Delta > -g.SwipeThreshold {
			return false
		}
		if now.Sub(g.lastGesture) < g.GestureCooldown {
			return false
		}
		g.lastGesture = now
	}

	g.lockedUntil = now.Add(g.TransitionCooldown)
	return true
}
