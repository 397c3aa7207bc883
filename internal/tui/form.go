package tui

import (
	"fmt"
	"slices"
	"strings"

	"reco/internal/preference"

	tea "github.com/charmbracelet/bubbletea"
)

type formField int

const (
	fieldGenres formField = iota
	fieldLevel
	fieldRecent1
	fieldRecent2
	fieldPeriod
	fieldLength
	fieldWarnings
	fieldCount
)

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.field = (m.field + 1) % fieldCount
		cmd := m.focusFormField()
		return m, cmd
	case "shift+tab", "up":
		m.field = (m.field + fieldCount - 1) % fieldCount
		cmd := m.focusFormField()
		return m, cmd
	case "enter":
		m.blurFormInputs()
		if req, ok := m.app.SubmitPreferences(m.form.Submit()); ok {
			return m, m.fetch(req)
		}
		return m, nil
	}

	switch m.field {
	case fieldGenres:
		switch msg.String() {
		case "left", "h":
			m.genreCursor = (m.genreCursor + len(preference.Genres) - 1) % len(preference.Genres)
		case "right", "l":
			m.genreCursor = (m.genreCursor + 1) % len(preference.Genres)
		case " ", "x":
			m.form.ToggleGenre(preference.Genres[m.genreCursor])
		}
	case fieldLevel:
		if d := direction(msg); d != 0 {
			m.form.SetReadingLevel(cycle(preference.ReadingLevels, m.form.ReadingLevel(), d))
		}
	case fieldPeriod:
		if d := direction(msg); d != 0 {
			m.form.SetTimePeriod(cycle(preference.TimePeriods, m.form.TimePeriod(), d))
		}
	case fieldLength:
		if d := direction(msg); d != 0 {
			m.form.SetMaxLength(m.form.MaxLength() + d*preference.LengthStep)
		}
	case fieldRecent1, fieldRecent2:
		slot := int(m.field - fieldRecent1)
		var cmd tea.Cmd
		m.recent[slot], cmd = m.recent[slot].Update(msg)
		m.form.SetRecentBook(slot, m.recent[slot].Value())
		return m, cmd
	case fieldWarnings:
		var cmd tea.Cmd
		m.warnings, cmd = m.warnings.Update(msg)
		m.form.SetContentWarnings(m.warnings.Value())
		return m, cmd
	}
	return m, nil
}

func direction(msg tea.KeyMsg) int {
	switch msg.String() {
	case "left", "h", "-":
		return -1
	case "right", "l", "+":
		return 1
	}
	return 0
}

// cycle steps through options from current. An unset current starts at the
// first option going right and the last going left.
func cycle(options []string, current string, delta int) string {
	i := slices.Index(options, current)
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(options) - 1
	default:
		i = (i + delta + len(options)) % len(options)
	}
	return options[i]
}

func (m *Model) blurFormInputs() {
	for i := range m.recent {
		m.recent[i].Blur()
	}
	m.warnings.Blur()
}

func (m *Model) focusFormField() tea.Cmd {
	m.blurFormInputs()
	switch m.field {
	case fieldRecent1, fieldRecent2:
		return m.recent[m.field-fieldRecent1].Focus()
	case fieldWarnings:
		return m.warnings.Focus()
	}
	return nil
}

func (m Model) label(f formField, text string) string {
	if m.field == f {
		return focusedLabelStyle.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m Model) viewForm() string {
	var b strings.Builder

	b.WriteString(m.label(fieldGenres, fmt.Sprintf("Favorite genres (up to %d)", preference.MaxGenres)))
	b.WriteString("\n  ")
	for i, g := range preference.Genres {
		style := chipStyle
		if m.form.HasGenre(g) {
			style = selectedChipStyle
		}
		if m.field == fieldGenres && i == m.genreCursor {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(g))
		if (i+1)%6 == 0 && i+1 < len(preference.Genres) {
			b.WriteString("\n  ")
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.label(fieldLevel, "Reading level"))
	b.WriteString("  " + optionRow(preference.ReadingLevels, m.form.ReadingLevel()) + "\n\n")

	b.WriteString(m.label(fieldRecent1, "Recently enjoyed books"))
	b.WriteString("\n    " + m.recent[0].View())
	b.WriteString("\n" + m.label(fieldRecent2, ""))
	b.WriteString("  " + m.recent[1].View() + "\n\n")

	b.WriteString(m.label(fieldPeriod, "Time period"))
	b.WriteString("  " + optionRow(preference.TimePeriods, m.form.TimePeriod()) + "\n\n")

	b.WriteString(m.label(fieldLength, "Maximum length"))
	b.WriteString(fmt.Sprintf("  ◀ %d pages ▶", m.form.MaxLength()) + "\n\n")

	b.WriteString(m.label(fieldWarnings, "Content warnings to avoid (comma separated)"))
	b.WriteString("\n    " + m.warnings.View() + "\n")

	b.WriteString(helpStyle.Render("tab/shift+tab move • ←/→ change • space toggle genre • enter find books • ctrl+c quit"))
	return b.String()
}

func optionRow(options []string, selected string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if o == selected {
			parts[i] = selectedChipStyle.Render(o)
		} else {
			parts[i] = chipStyle.Render(o)
		}
	}
	return strings.Join(parts, "")
}
