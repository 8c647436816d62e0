package tui

import (
	"fmt"
	"time"

	"github.com/aburusaki/repeat/internal/engine"
	"github.com/aburusaki/repeat/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCounter viewState = iota
	viewSentences
	viewStats
	viewSettings
)

var viewNames = []string{"Counter", "Sentences", "Stats", "Settings"}

// --- Messages ---

// contentMsg carries a fresh snapshot of all sentences and categories. It is
// handled at the app level so the session and every view see the same data.
type contentMsg struct {
	sentences  []store.Sentence
	categories []store.Category
}

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg fires every second for active-time accounting.
type tickMsg time.Time

// pollMsg fires on the slower content-refresh interval.
type pollMsg time.Time

// settingsChangedMsg tells the app to reload cycle settings from the store.
type settingsChangedMsg struct{}

// settingsLoadedMsg carries cycle settings read from the store. Commands run
// on their own goroutines, so the values are applied to the session inside
// App.Update, never from the command itself.
type settingsLoadedMsg struct {
	length engine.LengthConfig
	mode   engine.Mode
	wrap   bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatSeconds(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}

func formatDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("Mon Jan 02")
}

func truncate(s string, w int) string {
	if w < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(runes[:w-1]) + "…"
}
