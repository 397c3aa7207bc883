package tui

import (
	"fmt"
	"strings"

	"reco/internal/book"
	"reco/internal/discovery"

	tea "github.com/charmbracelet/bubbletea"
)

const synopsisWidth = 72

var sortKeys = map[string]book.SortOption{
	"d": book.SortPublicationDate,
	"r": book.SortRating,
	"l": book.SortLength,
	"p": book.SortPopularity,
}

var statusKeys = map[string]book.Status{
	"t": book.StatusToRead,
	"x": book.StatusRead,
	"i": book.StatusNotInterested,
}

func (m Model) updateResults(msg tea.KeyMsg, st discovery.State) (tea.Model, tea.Cmd) {
	if m.searchFocused {
		return m.updateSearchBar(msg)
	}

	key := msg.String()
	if option, ok := sortKeys[key]; ok {
		m.app.SetSort(option)
		m.cursor = 0
		return m, nil
	}
	if status, ok := statusKeys[key]; ok {
		if m.cursor >= len(st.Books) {
			return m, nil
		}
		b := st.Books[m.cursor]
		if st.User == nil {
			m.app.RequestAuth()
			m.authField = 0
			cmd := m.focusAuthField()
			return m, cmd
		}
		return m, m.changeStatus(b, status)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchFocused = true
		cmd := m.search.Focus()
		return m, cmd
	case "j", "down":
		if m.cursor < len(st.Books)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "n", "right":
		if req, ok := m.app.SetPage(st.Page + 1); ok {
			return m, m.fetch(req)
		}
	case "b", "left":
		if req, ok := m.app.SetPage(st.Page - 1); ok {
			return m, m.fetch(req)
		}
	case "R":
		if st.Err != "" {
			if req, ok := m.app.SetPage(st.Page); ok {
				return m, m.fetch(req)
			}
		}
	case "P":
		m.app.ShowPreferences()
	case "s":
		if st.User == nil {
			m.app.RequestAuth()
			m.authField = 0
			cmd := m.focusAuthField()
			return m, cmd
		}
	case "o":
		if st.User != nil {
			return m, m.signOut()
		}
	}
	return m, nil
}

func (m Model) updateSearchBar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searchFocused = false
		m.search.Blur()
		if req, ok := m.app.Search(strings.TrimSpace(m.search.Value())); ok {
			return m, m.fetch(req)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) viewResults(st discovery.State) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Search ") + m.search.View() + "\n")
	b.WriteString(sortBar(st.Sort) + "\n\n")

	switch {
	case st.Loading:
		b.WriteString(m.spinner.View() + " Loading books...\n")
	case st.Err != "":
		b.WriteString(errorStyle.Render(st.Err) + "\n")
	case st.Query == "":
		b.WriteString(metaStyle.Render("Press / and type a title, author or subject to discover books.") + "\n")
	case len(st.Books) == 0:
		b.WriteString(metaStyle.Render(fmt.Sprintf("No books found for %q.", st.Query)) + "\n")
	default:
		for i, bk := range st.Books {
			b.WriteString(renderCard(bk, st.Statuses[bk.ID], i == m.cursor) + "\n")
		}
		b.WriteString(pager(st) + "\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render(resultsHelp(st)))
	return b.String()
}

func sortBar(current book.SortOption) string {
	parts := []string{labelStyle.Render("Sort")}
	for _, o := range book.SortOptions {
		label := fmt.Sprintf("%s (%s)", o.Label(), sortKey(o))
		if o == current {
			parts = append(parts, selectedChipStyle.Render(label))
		} else {
			parts = append(parts, chipStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func sortKey(option book.SortOption) string {
	for k, o := range sortKeys {
		if o == option {
			return k
		}
	}
	return "?"
}

func renderCard(b book.Book, status book.Status, selected bool) string {
	var lines []string

	title := bookTitleStyle.Render(b.Title)
	if status != "" {
		title += " " + badgeStyle.Render(statusLabel(status))
	}
	lines = append(lines, title)
	lines = append(lines, "by "+b.Author)
	lines = append(lines, metaStyle.Render(fmt.Sprintf("%s • %d pages • %s", b.PublicationDate, b.PageCount, b.EstimatedReadingTime))+
		"  "+ratingStyle.Render(fmt.Sprintf("★ %.1f", b.AverageRating)))
	if len(b.Genres) > 0 {
		lines = append(lines, metaStyle.Render(strings.Join(b.Genres, " · ")))
	}
	lines = append(lines, truncate(b.Synopsis, synopsisWidth))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func pager(st discovery.State) string {
	if st.TotalPages == 0 {
		return ""
	}
	return metaStyle.Render(fmt.Sprintf("Page %d of %d • %d results", st.Page, st.TotalPages, st.Total))
}

func resultsHelp(st discovery.State) string {
	help := "/ search • j/k move • d/r/l/p sort • n/b page • t want • x read • i not interested • P preferences"
	if st.Err != "" {
		help += " • R retry"
	}
	if st.User == nil {
		help += " • s sign in"
	} else {
		help += " • o sign out"
	}
	return help + " • q quit"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
