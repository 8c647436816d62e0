package engine

import (
	"math/rand"
	"time"

	"github.com/aburusaki/repeat/internal/store"
)

// Selector deals sentences from a shuffle bag: every sentence matching the
// active filter is shown exactly once per cycle, in a fresh random order each
// cycle, and the first sentence of a new cycle never repeats the last one of
// the previous cycle.
type Selector struct {
	rng *rand.Rand

	bag         []store.Sentence
	bagFilter   Filter
	lastShownID string
}

// NewSelector returns a selector using rng for shuffling; a nil rng gets a
// time-seeded source.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Next draws the next sentence from all matching f, or nil when nothing
// matches. Sentences deleted or re-tagged out of scope since the bag was
// filled are discarded on draw.
func (s *Selector) Next(all []store.Sentence, f Filter) *store.Sentence {
	if f != s.bagFilter {
		// A bag filled under another filter must not leak across.
		s.bag = nil
		s.bagFilter = f
	}

	relevant := make(map[string]store.Sentence)
	for _, sent := range all {
		if f.Matches(sent) {
			relevant[sent.ID] = sent
		}
	}
	if len(relevant) == 0 {
		return nil
	}
	if len(relevant) == 1 {
		for _, sent := range relevant {
			s.lastShownID = sent.ID
			return &sent
		}
	}

	// Bounded: each refill holds only relevant sentences, so a stale draw
	// can discard at most one old bag before a fresh one succeeds.
	for {
		if len(s.bag) == 0 {
			s.refill(all, f)
		}
		drawn := s.bag[len(s.bag)-1]
		s.bag = s.bag[:len(s.bag)-1]

		current, ok := relevant[drawn.ID]
		if !ok {
			continue
		}
		s.lastShownID = current.ID
		return &current
	}
}

// Reset forgets the in-progress bag. The anti-repeat guard survives so a
// reset cannot cause an immediate repeat either.
func (s *Selector) Reset() {
	s.bag = nil
}

func (s *Selector) refill(all []store.Sentence, f Filter) {
	s.bag = s.bag[:0]
	for _, sent := range all {
		if f.Matches(sent) {
			s.bag = append(s.bag, sent)
		}
	}
	s.rng.Shuffle(len(s.bag), func(i, j int) {
		s.bag[i], s.bag[j] = s.bag[j], s.bag[i]
	})

	// Draws come from the end; a single swap breaks a repeat across the
	// cycle boundary without re-shuffling.
	last := len(s.bag) - 1
	if last > 0 && s.bag[last].ID == s.lastShownID {
		s.bag[last], s.bag[0] = s.bag[0], s.bag[last]
	}
}
