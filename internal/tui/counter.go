package tui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aburusaki/repeat/internal/engine"
	"github.com/aburusaki/repeat/internal/store"
)

// storeRecorder persists tick counts off the input path. A failed write is
// logged and dropped; the counter must never stall on the database.
type storeRecorder struct {
	store *store.Store
}

func (r storeRecorder) RecordTick(sentenceID string) {
	go func() {
		if err := r.store.IncrementToday(sentenceID); err != nil {
			log.Printf("record tick: %v", err)
		}
	}()
}

// activeFlushEvery is how many pending seconds accumulate before they are
// written to the store.
const activeFlushEvery = 30

type counterModel struct {
	store   *store.Store
	session *engine.Session
	width   int
	height  int

	categories []store.Category
	filterID   string // empty = all sentences

	pendingActive int64

	// Drag tracking for swipe detection.
	dragging   bool
	dragStartY int
}

func newCounterModel(s *store.Store, sess *engine.Session) counterModel {
	return counterModel{store: s, session: sess}
}

func (c *counterModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c *counterModel) setContent(categories []store.Category) {
	c.categories = categories
	if c.filterID == "" {
		return
	}
	for _, cat := range categories {
		if cat.ID == c.filterID {
			return
		}
	}
	// The filtered category was deleted; fall back to everything.
	c.filterID = ""
	c.session.SetFilter(engine.All())
}

func (c counterModel) filterName() string {
	for _, cat := range c.categories {
		if cat.ID == c.filterID {
			return cat.Name
		}
	}
	return "All"
}

// tick accumulates one active second and flushes the batch once it is large
// enough.
func (c counterModel) tick() (counterModel, tea.Cmd) {
	c.pendingActive++
	if c.pendingActive < activeFlushEvery {
		return c, nil
	}
	pending := c.pendingActive
	c.pendingActive = 0
	return c, func() tea.Msg {
		if _, err := c.store.IncrementActiveTime(pending); err != nil {
			return statusMsg{text: fmt.Sprintf("active time: %v", err), isError: true}
		}
		return nil
	}
}

func (c counterModel) update(msg tea.Msg) (counterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return c.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Count):
			c.session.Offer(engine.Input{Kind: engine.InputKey})
			return c, nil
		case key.Matches(msg, keys.Mode):
			c.session.ToggleMode()
			return c, nil
		case key.Matches(msg, keys.Filter):
			return c.cycleFilter()
		}

	case tea.MouseMsg:
		return c.updateMouse(msg)
	}
	return c, nil
}

func (c counterModel) updateMouse(msg tea.MouseMsg) (counterModel, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		c.session.Offer(engine.Input{Kind: engine.InputWheel, Delta: -1})
		return c, nil
	case tea.MouseButtonWheelDown:
		// Wrong direction, let the gate reject it for symmetry.
		c.session.Offer(engine.Input{Kind: engine.InputWheel, Delta: 1})
		return c, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			c.dragging = true
			c.dragStartY = msg.Y
		}
	case tea.MouseActionRelease:
		if !c.dragging {
			return c, nil
		}
		c.dragging = false
		delta := float64(msg.Y - c.dragStartY) // negative = upward
		if delta <= -engine.DefaultSwipeThreshold {
			c.session.Offer(engine.Input{Kind: engine.InputSwipe, Delta: delta})
		} else {
			// A drag too short for a swipe still lands as a tap.
			c.session.Offer(engine.Input{Kind: engine.InputTap})
		}
	}
	return c, nil
}

func (c counterModel) cycleFilter() (counterModel, tea.Cmd) {
	next := 0
	if c.filterID != "" {
		for i, cat := range c.categories {
			if cat.ID == c.filterID {
				next = i + 1
				break
			}
		}
	}
	if next >= len(c.categories) {
		c.filterID = ""
		c.session.SetFilter(engine.All())
	} else {
		c.filterID = c.categories[next].ID
		c.session.SetFilter(engine.Category(c.filterID))
	}
	return c, nil
}

func (c counterModel) view() string {
	if c.width < 20 {
		return "Terminal too small"
	}
	w := c.width - 4
	snap := c.session.Snapshot()

	if snap.Sentence == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			mutedStyle.Render("No sentences yet."),
			"",
			mutedStyle.Render("Press 2 to go to Sentences and add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	style := countStyle
	if snap.Transitioning {
		style = countFadingStyle
	}
	count := style.Width(w - 6).Render(bigDigits(snap.Count))

	sentence := sentenceStyle.Width(w - 6).Render(snap.Sentence.Text)

	var modeLine string
	if snap.Mode == engine.ModeDown {
		modeLine = mutedStyle.Render(fmt.Sprintf("countdown · cycle of %d", snap.CycleLength))
	} else {
		modeLine = mutedStyle.Render("count up")
	}
	filterLine := mutedStyle.Render("filter: ") + highlightStyle.Render(c.filterName())
	statusLine := lipgloss.JoinHorizontal(lipgloss.Center, modeLine, "   ", filterLine)

	hint := mutedStyle.Render("space/click/scroll up: count  m: mode  f: filter")

	content := lipgloss.JoinVertical(lipgloss.Center,
		count,
		"",
		sentence,
		"",
		statusLine,
		"",
		hint,
	)
	return activePanelStyle.Width(w).Render(content)
}

// bigDigits renders n as a block-character figure so the count reads from
// across the room.
func bigDigits(n int) string {
	digits := map[rune][]string{
		'0': {"█▀█", "█ █", "█▄█"},
		'1': {"▄█ ", " █ ", "▄█▄"},
		'2': {"▀▀█", "█▀▀", "█▄▄"},
		'3': {"▀▀█", " ▀█", "▄▄█"},
		'4': {"█ █", "▀▀█", "  █"},
		'5': {"█▀▀", "▀▀█", "▄▄█"},
		'6': {"█▀▀", "█▀█", "█▄█"},
		'7': {"▀▀█", "  █", "  █"},
		'8': {"█▀█", "█▀█", "█▄█"},
		'9': {"█▀█", "▀▀█", "▄▄█"},
	}

	str := fmt.Sprintf("%d", n)
	rows := make([]string, 3)
	for _, r := range str {
		fig, ok := digits[r]
		if !ok {
			continue
		}
		for i := range rows {
			if rows[i] != "" {
				rows[i] += " "
			}
			rows[i] += fig[i]
		}
	}
	return strings.Join(rows, "\n")
}
