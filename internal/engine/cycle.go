package engine

import (
	"math/rand"
	"time"

	"github.com/aburusaki/repeat/internal/store"
)

type Mode int

const (
	ModeDown Mode = iota
	ModeUp
)

const (
	// DefaultLength replaces a zero or negative configured cycle length.
	DefaultLength = 3
	// RandomLengthMax bounds the random-per-cycle draw (1..RandomLengthMax).
	RandomLengthMax = 7
)

// LengthConfig is the configured countdown span: a fixed positive length, or
// a fresh random draw each cycle.
type LengthConfig struct {
	Fixed  int
	Random bool
}

// Recorder receives one increment per accepted tick, attributed to the
// sentence on screen when the user acted. Implementations must not block;
// failures are theirs to swallow.
type Recorder interface {
	RecordTick(sentenceID string)
}

// Controller owns the visible number and the displayed sentence, advancing
// both on accepted ticks.
type Controller struct {
	selector *Selector
	recorder Recorder
	rng      *rand.Rand

	sentences []store.Sentence
	filter    Filter

	mode     Mode
	length   LengthConfig
	wrapUp   bool
	count    int
	cycleLen int
	sentence *store.Sentence
}

func NewController(sel *Selector, rec Recorder) *Controller {
	return &Controller{
		selector: sel,
		recorder: rec,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		length:   LengthConfig{Fixed: DefaultLength},
	}
}

// Initialize installs the first sentence snapshot and, if there was no
// sentence on display yet, starts the first cycle.
func (c *Controller) Initialize(sentences []store.Sentence) {
	c.sentences = sentences
	if c.sentence == nil {
		c.resetCycle()
	}
}

// SetSentences replaces the snapshot wholesale. The displayed sentence and
// count are left alone; only an explicit reset changes them.
func (c *Controller) SetSentences(sentences []store.Sentence) {
	c.sentences = sentences
}

func (c *Controller) SetFilter(f Filter) {
	c.filter = f
	c.resetCycle()
}

func (c *Controller) SetLength(cfg LengthConfig) {
	if !cfg.Random && cfg.Fixed < 1 {
		cfg.Fixed = DefaultLength
	}
	c.length = cfg
	c.resetCycle()
}

// SetWrapUp makes count-up mode wrap back through a full reset at the cycle
// length instead of growing without bound.
func (c *Controller) SetWrapUp(wrap bool) {
	c.wrapUp = wrap
}

// SetMode switches the counting direction. Switching to down restarts the
// cycle in full; switching to up keeps the sentence and restarts the number
// at 1.
func (c *Controller) SetMode(m Mode) {
	if m == c.mode {
		return
	}
	c.mode = m
	if m == ModeDown {
		c.resetCycle()
	} else {
		c.count = 1
	}
}

func (c *Controller) ToggleMode() {
	if c.mode == ModeDown {
		c.SetMode(ModeUp)
	} else {
		c.SetMode(ModeDown)
	}
}

// Tick advances the number by one accepted interaction. The stats increment
// is recorded first, against the sentence that was on screen when the user
// acted.
func (c *Controller) Tick() {
	if c.sentence != nil && c.recorder != nil {
		c.recorder.RecordTick(c.sentence.ID)
	}

	switch c.mode {
	case ModeDown:
		if c.count > 1 {
			c.count--
			return
		}
		// Terminal tick: new limit, new sentence. The display never
		// shows 0.
		c.resetCycle()

	case ModeUp:
		next := c.count + 1
		if c.wrapUp && next > c.cycleLen {
			c.resetCycle()
			return
		}
		c.count = next
	}
}

func (c *Controller) resetCycle() {
	limit := c.length.Fixed
	if c.length.Random {
		limit = c.rng.Intn(RandomLengthMax) + 1
	}
	if limit < 1 {
		limit = DefaultLength
	}
	c.cycleLen = limit
	c.sentence = c.selector.Next(c.sentences, c.filter)
	if c.mode == ModeDown {
		c.count = limit
	} else {
		c.count = 1
	}
}

func (c *Controller) Count() int                { return c.count }
func (c *Controller) CycleLength() int          { return c.cycleLen }
func (c *Controller) Mode() Mode                { return c.mode }
func (c *Controller) Filter() Filter            { return c.filter }
func (c *Controller) Sentence() *store.Sentence { return c.sentence }
