package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aburusaki/repeat/internal/engine"
	"github.com/aburusaki/repeat/internal/export"
	"github.com/aburusaki/repeat/internal/store"
)

// exportRangeDays is how far back the export reaches.
const exportRangeDays = 365

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	session *engine.Session
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	counter   counterModel
	sentences sentencesModel
	stats     statsModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	session := engine.NewSession(storeRecorder{store: s})

	return App{
		store:      s,
		session:    session,
		activeView: viewCounter,
		counter:    newCounterModel(s, session),
		sentences:  newSentencesModel(s),
		stats:      newStatsModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadSettings(),
		a.sentences.refresh(),
		a.settings.refresh(),
		tickCmd(),
		pollCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func pollCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// loadSettings reads the persisted cycle settings off the update loop. The
// session is single-writer, so the command only reads; Update applies the
// resulting settingsLoadedMsg.
func (a App) loadSettings() tea.Cmd {
	return func() tea.Msg {
		msg := settingsLoadedMsg{
			length: engine.LengthConfig{Fixed: engine.DefaultLength},
			mode:   engine.ModeDown,
		}
		if v, err := a.store.GetSetting("cycle_length"); err == nil {
			if n, err := strconv.Atoi(v); err == nil {
				msg.length.Fixed = n
			}
		}
		if v, err := a.store.GetSetting("cycle_random"); err == nil && v == "on" {
			msg.length.Random = true
		}
		if v, err := a.store.GetSetting("count_up_wrap"); err == nil && v == "on" {
			msg.wrap = true
		}
		if v, err := a.store.GetSetting("count_mode"); err == nil && v == "up" {
			msg.mode = engine.ModeUp
		}
		return msg
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.counter.setSize(a.width, contentHeight)
		a.sentences.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case contentMsg:
		// One snapshot feeds the session and every view.
		a.session.SetSentences(msg.sentences)
		a.session.Initialize(msg.sentences)
		a.counter.setContent(msg.categories)
		a.sentences.setContent(msg.sentences, msg.categories)
		a.stats.setContent(msg.sentences)
		return a, nil

	case settingsChangedMsg:
		return a, a.loadSettings()

	case settingsLoadedMsg:
		a.session.SetLength(msg.length)
		a.session.SetWrapUp(msg.wrap)
		a.session.SetMode(msg.mode)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			a.syncGate()
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, a.quit()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewCounter)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewSentences)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewStats)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % 4)
		}

		model, cmd := a.updateActiveView(msg)
		if app, ok := model.(App); ok {
			app.syncGate()
			return app, cmd
		}
		return model, cmd

	case tea.MouseMsg:
		if a.activeView == viewCounter && !a.exportPicking {
			var cmd tea.Cmd
			a.counter, cmd = a.counter.update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		// Active time only accumulates while the counter is in front.
		if a.activeView == viewCounter && !a.exportPicking {
			var cmd tea.Cmd
			a.counter, cmd = a.counter.update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return a, tea.Batch(cmds...)

	case pollMsg:
		// Background refresh keeps the selector working on current content.
		return a, tea.Batch(pollCmd(), a.sentences.refresh())

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		a.syncGate()
		return a, nil
	}

	return a.updateActiveView(msg)
}

// quit flushes the pending active seconds before shutting down.
func (a App) quit() tea.Cmd {
	pending := a.counter.pendingActive
	return tea.Sequence(
		func() tea.Msg {
			if pending > 0 {
				a.store.IncrementActiveTime(pending)
			}
			return nil
		},
		tea.Quit,
	)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.syncGate()
	switch v {
	case viewSentences:
		return a, a.sentences.refresh()
	case viewStats:
		return a, a.stats.refresh()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

// syncGate keeps the interaction gate in step with what is on screen:
// anything covering the counter suppresses ticks, and open text fields
// swallow the space bar.
func (a *App) syncGate() {
	overlay := a.activeView != viewCounter || a.exportPicking
	a.session.SetOverlay(overlay)
	a.session.SetTextEntry(a.isFormActive())
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCounter:
		a.counter, cmd = a.counter.update(msg)
	case viewSentences:
		a.sentences, cmd = a.sentences.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewSentences:
		return a.sentences.formActive
	case viewStats:
		return a.stats.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCounter:
		content = a.counter.view()
	case viewSentences:
		content = a.sentences.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("repeat")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Cycle indicator in the footer
	cycleInfo := ""
	if snap := a.session.Snapshot(); snap.Sentence != nil {
		if snap.Mode == engine.ModeDown {
			cycleInfo = successStyle.Render(fmt.Sprintf(" ● %d of %d", snap.Count, snap.CycleLength))
		} else {
			cycleInfo = successStyle.Render(fmt.Sprintf(" ▲ %d", snap.Count))
		}
	}

	left := footerStyle.Render(helpView)
	right := cycleInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		a.syncGate()
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
		a.syncGate()
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		stats, err := a.store.GetRange(exportRangeDays)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		// Build sentence text lookup
		texts := make(map[string]string)
		sentences, _ := a.store.ListSentences()
		for _, s := range sentences {
			texts[s.ID] = s.Text
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("repeat-export-%s.csv", dateStr))
			if err := export.ToCSV(stats, texts, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("repeat-export-%s.json", dateStr))
			if err := export.ToJSON(stats, texts, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
