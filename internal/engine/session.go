package engine

import "github.com/aburusaki/repeat/internal/store"

// Snapshot is the read-only session state the UI renders from.
type Snapshot struct {
	Count         int
	Sentence      *store.Sentence
	Mode          Mode
	CycleLength   int
	Filter        Filter
	Transitioning bool
}

// Session is the single surface the UI talks to: the gate in front of the
// cycle controller in front of the shuffle-bag selector.
type Session struct {
	gate *Gate
	ctrl *Controller
}

// NewSession wires a session with a time-seeded selector. rec may be nil.
func NewSession(rec Recorder) *Session {
	return &Session{
		gate: NewGate(),
		ctrl: NewController(NewSelector(nil), rec),
	}
}

func (s *Session) Initialize(sentences []store.Sentence) {
	s.ctrl.Initialize(sentences)
}

// SetSentences refreshes the content snapshot without touching the displayed
// sentence or count.
func (s *Session) SetSentences(sentences []store.Sentence) {
	s.ctrl.SetSentences(sentences)
}

// SetFilter restarts the cycle under the new filter immediately, superseding
// any in-flight transition cooldown.
func (s *Session) SetFilter(f Filter) {
	s.gate.Unlock()
	s.ctrl.SetFilter(f)
}

// SetLength restarts the cycle under the new length configuration,
// superseding any in-flight transition cooldown.
func (s *Session) SetLength(cfg LengthConfig) {
	s.gate.Unlock()
	s.ctrl.SetLength(cfg)
}

func (s *Session) SetWrapUp(wrap bool) { s.ctrl.SetWrapUp(wrap) }

func (s *Session) SetMode(m Mode) { s.ctrl.SetMode(m) }

func (s *Session) ToggleMode() { s.ctrl.ToggleMode() }

func (s *Session) SetOverlay(open bool) { s.gate.SetOverlay(open) }

func (s *Session) SetTextEntry(active bool) { s.gate.SetTextEntry(active) }

// Offer runs a raw input event through the gate and, when accepted, advances
// the cycle by one tick.
func (s *Session) Offer(in Input) bool {
	if !s.gate.Offer(in) {
		return false
	}
	s.ctrl.Tick()
	return true
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Count:         s.ctrl.Count(),
		Sentence:      s.ctrl.Sentence(),
		Mode:          s.ctrl.Mode(),
		CycleLength:   s.ctrl.CycleLength(),
		Filter:        s.ctrl.Filter(),
		Transitioning: s.gate.Transitioning(),
	}
}
