package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aburusaki/repeat/internal/store"
)

type sentencesModel struct {
	store  *store.Store
	width  int
	height int

	sentences  []store.Sentence
	categories []store.Category
	cursor     int

	viewingCategories bool
	catCursor         int

	formActive bool
	form       *huh.Form
	formType   string // "sentence", "edit_sentence", "category", "rename_category"

	// Form field pointers (survive value copies)
	formText *string
	formCats *[]string
	formName *string

	editingID string
}

func newSentencesModel(s *store.Store) sentencesModel {
	text, name := "", ""
	cats := []string{}
	return sentencesModel{
		store:    s,
		formText: &text,
		formCats: &cats,
		formName: &name,
	}
}

func (m *sentencesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *sentencesModel) setContent(sentences []store.Sentence, categories []store.Category) {
	m.sentences = sentences
	m.categories = categories
	if m.cursor >= len(m.sentences) {
		m.cursor = max(0, len(m.sentences)-1)
	}
	if m.catCursor >= len(m.categories) {
		m.catCursor = max(0, len(m.categories)-1)
	}
}

// refresh reloads content for every view; the app intercepts contentMsg.
func (m sentencesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		sentences, err := m.store.ListSentences()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("load sentences: %v", err), isError: true}
		}
		categories, err := m.store.ListCategories()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("load categories: %v", err), isError: true}
		}
		return contentMsg{sentences: sentences, categories: categories}
	}
}

func (m sentencesModel) update(msg tea.Msg) (sentencesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.viewingCategories {
			return m.updateCategoryList(msg)
		}
		return m.updateSentenceList(msg)
	}
	return m, nil
}

func (m sentencesModel) updateSentenceList(msg tea.KeyMsg) (sentencesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.sentences)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showSentenceForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(m.sentences) > 0 {
			sent := m.sentences[m.cursor]
			return m.showSentenceForm(&sent)
		}
	case key.Matches(msg, keys.Delete):
		if len(m.sentences) > 0 {
			sent := m.sentences[m.cursor]
			if err := m.store.DeleteSentence(sent.ID); err != nil {
				return m, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("delete: %v", err), isError: true}
				}
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Categories):
		m.viewingCategories = true
		m.catCursor = 0
	}
	return m, nil
}

func (m sentencesModel) updateCategoryList(msg tea.KeyMsg) (sentencesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingCategories = false
	case key.Matches(msg, keys.Up):
		if m.catCursor > 0 {
			m.catCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.catCursor < len(m.categories)-1 {
			m.catCursor++
		}
	case key.Matches(msg, keys.New):
		return m.showCategoryForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(m.categories) > 0 {
			cat := m.categories[m.catCursor]
			return m.showCategoryForm(&cat)
		}
	case key.Matches(msg, keys.Delete):
		if len(m.categories) > 0 {
			cat := m.categories[m.catCursor]
			if err := m.store.DeleteCategory(cat.ID); err != nil {
				return m, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("delete category: %v", err), isError: true}
				}
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m sentencesModel) showSentenceForm(sent *store.Sentence) (sentencesModel, tea.Cmd) {
	if sent == nil {
		*m.formText = ""
		*m.formCats = []string{}
		m.formType = "sentence"
	} else {
		*m.formText = sent.Text
		*m.formCats = append([]string{}, sent.CategoryIDs...)
		m.formType = "edit_sentence"
		m.editingID = sent.ID
	}

	fields := []huh.Field{
		huh.NewText().Title("Sentence").Value(m.formText).Lines(3),
	}
	if len(m.categories) > 0 {
		catOptions := make([]huh.Option[string], len(m.categories))
		for i, c := range m.categories {
			catOptions[i] = huh.NewOption(c.Name, c.ID)
		}
		fields = append(fields,
			huh.NewMultiSelect[string]().Title("Categories").Options(catOptions...).Value(m.formCats),
		)
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m sentencesModel) showCategoryForm(cat *store.Category) (sentencesModel, tea.Cmd) {
	if cat == nil {
		*m.formName = ""
		m.formType = "category"
	} else {
		*m.formName = cat.Name
		m.formType = "rename_category"
		m.editingID = cat.ID
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m sentencesModel) updateForm(msg tea.Msg) (sentencesModel, tea.Cmd) {
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

// saveForm persists the completed form. A failed write (say a duplicate
// category name) surfaces as a status message instead of vanishing with the
// form.
func (m sentencesModel) saveForm() tea.Cmd {
	var err error
	switch m.formType {
	case "sentence":
		if text := strings.TrimSpace(*m.formText); text != "" {
			_, err = m.store.CreateSentence(text, *m.formCats)
		}
	case "edit_sentence":
		if text := strings.TrimSpace(*m.formText); text != "" {
			err = m.store.UpdateSentence(m.editingID, text, *m.formCats)
		}
	case "category":
		if name := strings.TrimSpace(*m.formName); name != "" {
			_, err = m.store.CreateCategory(name)
		}
	case "rename_category":
		if name := strings.TrimSpace(*m.formName); name != "" {
			err = m.store.RenameCategory(m.editingID, name)
		}
	}
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("save: %v", err), isError: true}
		}
	}
	return m.refresh()
}

func (m sentencesModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Sentence")
		switch m.formType {
		case "edit_sentence":
			title = titleStyle.Render("Edit Sentence")
		case "category":
			title = titleStyle.Render("New Category")
		case "rename_category":
			title = titleStyle.Render("Rename Category")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.viewingCategories {
		return m.renderCategoryList()
	}
	return m.renderSentenceList()
}

func (m sentencesModel) renderSentenceList() string {
	w := m.width - 4
	title := titleStyle.Render("Sentences")

	if len(m.sentences) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No sentences yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	catNames := make(map[string]string, len(m.categories))
	for _, c := range m.categories {
		catNames[c.ID] = c.Name
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, sent := range m.sentences {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(cursor + truncate(sent.Text, w-30))
		if len(sent.CategoryIDs) > 0 {
			var names []string
			for _, id := range sent.CategoryIDs {
				if name, ok := catNames[id]; ok {
					names = append(names, name)
				}
			}
			row += mutedStyle.Render(" [" + strings.Join(names, ", ") + "]")
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  c: categories"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m sentencesModel) renderCategoryList() string {
	w := m.width - 4
	title := titleStyle.Render("Categories")

	if len(m.categories) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No categories yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	// Count members per category for the list.
	counts := make(map[string]int)
	for _, sent := range m.sentences {
		for _, id := range sent.CategoryIDs {
			counts[id]++
		}
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, cat := range m.categories {
		cursor := "  "
		style := normalItemStyle
		if i == m.catCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s", cursor, cat.Name))+
			mutedStyle.Render(fmt.Sprintf("%d sentences", counts[cat.ID])))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: rename  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
