package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.app.DismissAuthPrompt()
		m.authErr = ""
		m.email.Blur()
		m.password.Blur()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.authField = 1 - m.authField
		cmd := m.focusAuthField()
		return m, cmd
	case "enter", "ctrl+u":
		if m.authBusy {
			return m, nil
		}
		email := strings.TrimSpace(m.email.Value())
		password := m.password.Value()
		if email == "" || password == "" {
			m.authErr = "Enter your email and password."
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, m.signIn(email, password, msg.String() == "ctrl+u")
	}

	var cmd tea.Cmd
	if m.authField == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusAuthField() tea.Cmd {
	if m.authField == 0 {
		m.password.Blur()
		return m.email.Focus()
	}
	m.email.Blur()
	return m.password.Focus()
}

func (m Model) viewAuth() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Sign in to track your books") + "\n\n")
	b.WriteString("Email     " + m.email.View() + "\n")
	b.WriteString("Password  " + m.password.View() + "\n")
	if m.authBusy {
		b.WriteString("\n" + m.spinner.View() + " Contacting server...")
	}
	if m.authErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.authErr))
	}
	b.WriteString("\n" + helpStyle.Render("enter sign in • ctrl+u create account • tab switch field • esc close"))
	return modalStyle.Render(b.String())
}
