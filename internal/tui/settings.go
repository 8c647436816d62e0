package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aburusaki/repeat/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	cycleLength *string
	cycleRandom *string
	countMode   *string
	countUpWrap *string
}

func newSettingsModel(s *store.Store) settingsModel {
	cl, cr, cm, cw := "", "", "", ""
	return settingsModel{
		store:       s,
		cycleLength: &cl,
		cycleRandom: &cr,
		countMode:   &cm,
		countUpWrap: &cw,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := m.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.settings = msg.settings
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	*m.cycleLength = m.getVal("cycle_length", "3")
	*m.cycleRandom = m.getVal("cycle_random", "off")
	*m.countMode = m.getVal("count_mode", "down")
	*m.countUpWrap = m.getVal("count_up_wrap", "off")

	onOff := []huh.Option[string]{
		huh.NewOption("Off", "off"),
		huh.NewOption("On", "on"),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Cycle length").Value(m.cycleLength).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Random cycle length (1-7)").
				Options(onOff...).Value(m.cycleRandom),
			huh.NewSelect[string]().Title("Count mode").
				Options(
					huh.NewOption("Count down", "down"),
					huh.NewOption("Count up", "up"),
				).Value(m.countMode),
			huh.NewSelect[string]().Title("Wrap count-up at cycle length").
				Options(onOff...).Value(m.countUpWrap),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		m.saveSettings()
		return m, tea.Batch(
			m.refresh(),
			func() tea.Msg { return settingsChangedMsg{} },
		)
	}

	return m, cmd
}

func (m settingsModel) saveSettings() {
	m.store.SetSetting("cycle_length", *m.cycleLength)
	m.store.SetSetting("cycle_random", *m.cycleRandom)
	m.store.SetSetting("count_mode", *m.countMode)
	m.store.SetSetting("count_up_wrap", *m.countUpWrap)
}

func (m settingsModel) getVal(k, fallback string) string {
	v, err := m.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range m.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "count_mode":
		if v == "down" {
			return "count down"
		}
		return "count up"
	case "cycle_random", "count_up_wrap":
		return v
	case "cycle_length":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d repetitions", n)
		}
	}
	return v
}
