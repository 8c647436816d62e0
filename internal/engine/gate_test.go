package engine

import (
	"testing"
	"time"
)

// newTestGate returns a gate on a manual clock; move *cur to advance time.
func newTestGate() (*Gate, *time.Time) {
	cur := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate()
	g.now = func() time.Time { return cur }
	return g, &cur
}

func tap() Input   { return Input{Kind: InputTap} }
func press() Input { return Input{Kind: InputKey} }

// ============================================================
// Transition lock
// ============================================================

func TestGateSecondOfferRejected(t *testing.T) {
	g, _ := newTestGate()
	if !g.Offer(tap()) {
		t.Fatal("first offer should pass")
	}
	if g.Offer(tap()) {
		t.Fatal("offer inside the transition lock should be rejected")
	}
	if g.Offer(press()) {
		t.Fatal("the lock applies regardless of input kind")
	}
}

func TestGateLockExpires(t *testing.T) {
	g, cur := newTestGate()
	g.Offer(tap())

	*cur = cur.Add(DefaultTransitionCooldown - time.Millisecond)
	if g.Offer(tap()) {
		t.Fatal("offer just inside the lock should be rejected")
	}
	*cur = cur.Add(2 * time.Millisecond)
	if !g.Offer(tap()) {
		t.Fatal("offer after the lock should pass")
	}
}

func TestGateTransitioning(t *testing.T) {
	g, cur := newTestGate()
	if g.Transitioning() {
		t.Fatal("fresh gate should not be transitioning")
	}
	g.Offer(tap())
	if !g.Transitioning() {
		t.Fatal("gate should report transitioning inside the lock")
	}
	*cur = cur.Add(DefaultTransitionCooldown)
	if g.Transitioning() {
		t.Fatal("gate should settle after the lock expires")
	}
}

func TestGateUnlock(t *testing.T) {
	g, _ := newTestGate()
	g.Offer(tap())
	g.Unlock()
	if !g.Offer(tap()) {
		t.Fatal("Unlock should supersede an in-flight lock")
	}
}

// ============================================================
// Suppression
// ============================================================

func TestGateOverlaySuppresses(t *testing.T) {
	g, _ := newTestGate()
	g.SetOverlay(true)
	if g.Offer(tap()) || g.Offer(press()) || g.Offer(Input{Kind: InputWheel, Delta: -1}) {
		t.Fatal("no input should pass while an overlay is open")
	}
	g.SetOverlay(false)
	if !g.Offer(tap()) {
		t.Fatal("closing the overlay should restore input")
	}
}

func TestGateTextEntrySuppressesKeysOnly(t *testing.T) {
	g, cur := newTestGate()
	g.SetTextEntry(true)
	if g.Offer(press()) {
		t.Fatal("key input should be ignored while typing")
	}
	if !g.Offer(tap()) {
		t.Fatal("taps should still pass while typing")
	}
	*cur = cur.Add(time.Second)
	g.SetTextEntry(false)
	if !g.Offer(press()) {
		t.Fatal("keys should work again after leaving the field")
	}
}

// ============================================================
// Gestures
// ============================================================

func TestGateWheelDirection(t *testing.T) {
	g, _ := newTestGate()
	if g.Offer(Input{Kind: InputWheel, Delta: 1}) {
		t.Fatal("downward wheel should be rejected")
	}
	if g.Offer(Input{Kind: InputWheel, Delta: 0}) {
		t.Fatal("zero-delta wheel should be rejected")
	}
	if !g.Offer(Input{Kind: InputWheel, Delta: -1}) {
		t.Fatal("upward wheel at the threshold should pass")
	}
}

func TestGateWheelCooldown(t *testing.T) {
	g, cur := newTestGate()
	g.Offer(Input{Kind: InputWheel, Delta: -2})

	// Past the transition lock but inside the gesture cooldown.
	*cur = cur.Add(DefaultTransitionCooldown + 50*time.Millisecond)
	if g.Offer(Input{Kind: InputWheel, Delta: -2}) {
		t.Fatal("wheel inside the gesture cooldown should be rejected")
	}
	// Taps are not gestures and pass as soon as the lock clears.
	if !g.Offer(tap()) {
		t.Fatal("tap should pass once the transition lock clears")
	}

	g2, cur2 := newTestGate()
	g2.Offer(Input{Kind: InputWheel, Delta: -2})
	*cur2 = cur2.Add(DefaultGestureCooldown + time.Millisecond)
	if !g2.Offer(Input{Kind: InputWheel, Delta: -2}) {
		t.Fatal("wheel after the gesture cooldown should pass")
	}
}

func TestGateSwipeThreshold(t *testing.T) {
	g, _ := newTestGate()
	if g.Offer(Input{Kind: InputSwipe, Delta: -1}) {
		t.Fatal("swipe below the distance threshold should be rejected")
	}
	if g.Offer(Input{Kind: InputSwipe, Delta: 3}) {
		t.Fatal("downward swipe should be rejected")
	}
	if !g.Offer(Input{Kind: InputSwipe, Delta: -3}) {
		t.Fatal("upward swipe past the threshold should pass")
	}
}

func TestGateGestureCooldownShared(t *testing.T) {
	g, cur := newTestGate()
	g.Offer(Input{Kind: InputWheel, Delta: -1})

	// A swipe rides the same cooldown as the wheel.
	*cur = cur.Add(DefaultTransitionCooldown + 50*time.Millisecond)
	if g.Offer(Input{Kind: InputSwipe, Delta: -5}) {
		t.Fatal("swipe inside the shared gesture cooldown should be rejected")
	}
	*cur = cur.Add(DefaultGestureCooldown)
	if !g.Offer(Input{Kind: InputSwipe, Delta: -5}) {
		t.Fatal("swipe after the cooldown should pass")
	}
}
