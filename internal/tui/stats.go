package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aburusaki/repeat/internal/store"
)

type statsRange int

const (
	statsWeek statsRange = iota
	statsMonth
)

func (r statsRange) days() int {
	if r == statsMonth {
		return 30
	}
	return 7
}

type statsModel struct {
	store  *store.Store
	width  int
	height int

	mode       statsRange
	today      []store.DailyStat
	totals     map[string]int64
	activeSecs int64
	texts      map[string]string // sentence id -> text

	chart barchart.Model

	formActive bool
	form       *huh.Form
	formType   string // "correct", "reset"

	correctID    *string
	correctCount *string
	resetConfirm *bool
}

func newStatsModel(s *store.Store) statsModel {
	id, count := "", ""
	confirm := false
	return statsModel{
		store:        s,
		chart:        barchart.New(60, 10),
		correctID:    &id,
		correctCount: &count,
		resetConfirm: &confirm,
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *statsModel) setContent(sentences []store.Sentence) {
	m.texts = make(map[string]string, len(sentences))
	for _, s := range sentences {
		m.texts[s.ID] = s.Text
	}
}

type statsDataMsg struct {
	today      []store.DailyStat
	totals     map[string]int64
	activeSecs int64
}

func (m statsModel) refresh() tea.Cmd {
	days := m.mode.days()
	return func() tea.Msg {
		today, err := m.store.GetToday()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("load stats: %v", err), isError: true}
		}
		totals, err := m.store.GetDailyTotals(days)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("load totals: %v", err), isError: true}
		}
		active, _ := m.store.GetActiveTime()
		return statsDataMsg{today: today, totals: totals, activeSecs: active}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case statsDataMsg:
		m.today = msg.today
		m.totals = msg.totals
		m.activeSecs = msg.activeSecs
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if m.mode == statsWeek {
				m.mode = statsMonth
			} else {
				m.mode = statsWeek
			}
			return m, m.refresh()
		case key.Matches(msg, keys.Edit):
			if len(m.today) > 0 {
				return m.showCorrectForm()
			}
		case key.Matches(msg, keys.Reset):
			return m.showResetForm()
		}
	}
	return m, nil
}

func (m statsModel) showCorrectForm() (statsModel, tea.Cmd) {
	*m.correctID = m.today[0].SentenceID
	*m.correctCount = strconv.FormatInt(m.today[0].Count, 10)
	m.formType = "correct"

	options := make([]huh.Option[string], len(m.today))
	for i, st := range m.today {
		label := truncate(m.texts[st.SentenceID], 40)
		options[i] = huh.NewOption(fmt.Sprintf("%s (%d)", label, st.Count), st.SentenceID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Sentence").Options(options...).Value(m.correctID),
			huh.NewInput().Title("Count for today").Value(m.correctCount),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m statsModel) showResetForm() (statsModel, tea.Cmd) {
	*m.resetConfirm = false
	m.formType = "reset"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset all statistics?").
				Description("This deletes every recorded count. There is no undo.").
				Value(m.resetConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m statsModel) updateForm(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.saveForm()
	}

	return m, cmd
}

// saveForm applies the completed correction or reset; failures surface as a
// status message.
func (m statsModel) saveForm() tea.Cmd {
	switch m.formType {
	case "correct":
		count, err := strconv.ParseInt(strings.TrimSpace(*m.correctCount), 10, 64)
		if err != nil {
			return func() tea.Msg {
				return statusMsg{text: "count must be a number", isError: true}
			}
		}
		day := time.Now().UTC().Format("2006-01-02")
		if err := m.store.SetCount(day, *m.correctID, count); err != nil {
			return func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("set count: %v", err), isError: true}
			}
		}
	case "reset":
		if *m.resetConfirm {
			if err := m.store.ResetAllStats(); err != nil {
				return func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("reset stats: %v", err), isError: true}
				}
			}
		}
	}
	return m.refresh()
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	days := m.mode.days()
	now := time.Now().UTC()
	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		day := d.Format("2006-01-02")
		label := d.Format("02")
		if days == 7 {
			label = d.Format("Mon")
		}

		total := m.totals[day]
		style := barStyle
		if total == 0 {
			style = emptyStyle
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: day, Value: float64(total), Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Correct Today's Count")
		if m.formType == "reset" {
			title = titleStyle.Render("Reset Statistics")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	// Range tabs
	weekTab := inactiveTabStyle.Render("7 days")
	monthTab := inactiveTabStyle.Render("30 days")
	if m.mode == statsWeek {
		weekTab = activeTabStyle.Render("7 days")
	} else {
		monthTab = activeTabStyle.Render("30 days")
	}
	today := mutedStyle.Render(formatDay(time.Now().UTC().Format("2006-01-02")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", weekTab, monthTab, "  ", today,
	)

	chartView := m.chart.View()
	todayView := m.renderTodayTable(w)
	activeView := mutedStyle.Render("  active today: ") + highlightStyle.Render(formatSeconds(m.activeSecs))
	nav := mutedStyle.Render("  tab: range  e: correct  r: reset all")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", todayView, "", activeView, "", nav,
		),
	)
}

func (m statsModel) renderTodayTable(w int) string {
	title := titleStyle.Render("Today")
	if len(m.today) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("  No counts yet today"))
	}

	var total int64
	var rows []string
	rows = append(rows, title)
	for _, st := range m.today {
		total += st.Count
		text := truncate(m.texts[st.SentenceID], w-18)
		if text == "" {
			text = mutedStyle.Render("(deleted sentence)")
		}
		rows = append(rows, fmt.Sprintf("  %6d  %s", st.Count, text))
	}
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %6d  %s", total, mutedStyle.Render("total")))

	return strings.Join(rows, "\n")
}
