// Package tui is the terminal front end of the book-discovery screen.
package tui

import (
	"context"
	"errors"
	"fmt"

	"reco/internal/backend"
	"reco/internal/book"
	"reco/internal/discovery"
	"reco/internal/preference"
	"reco/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Model is the root Bubble Tea model. All discovery state lives in the
// discovery.App; the model only holds input widgets and cursor positions.
type Model struct {
	ctx      context.Context
	app      *discovery.App
	sessions *session.Context
	logger   *zap.Logger

	form        *preference.Form
	field       formField
	genreCursor int
	recent      [preference.RecentBookSlots]textinput.Model
	warnings    textinput.Model

	search        textinput.Model
	searchFocused bool
	cursor        int
	notice        string

	email     textinput.Model
	password  textinput.Model
	authField int
	authErr   string
	authBusy  bool

	spinner spinner.Model
	width   int
	height  int
}

func New(ctx context.Context, app *discovery.App, sessions *session.Context, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		ctx:      ctx,
		app:      app,
		sessions: sessions,
		logger:   logger,
		form:     preference.NewForm(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	for i := range m.recent {
		m.recent[i] = newInput(fmt.Sprintf("Recently enjoyed book %d", i+1), 120)
	}
	m.warnings = newInput("e.g. violence, grief", 200)
	m.search = newInput("Search by title, author or subject", 200)
	m.email = newInput("email", 254)
	m.password = newInput("password", 72)
	m.email.Width, m.password.Width = 30, 30
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	return in
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDone:
		if m.app.Apply(msg.Result) {
			m.cursor = 0
		}
		return m, nil

	case statusSaved:
		if msg.Err != nil {
			if errors.Is(msg.Err, discovery.ErrAuthRequired) {
				return m, nil
			}
			m.notice = fmt.Sprintf("Could not save %q. Please try again.", msg.Title)
			return m, nil
		}
		m.notice = fmt.Sprintf("%q marked as %s", msg.Title, statusLabel(msg.Status))
		return m, nil

	case authDone:
		m.authBusy = false
		if msg.Err != nil {
			m.authErr = authErrorMessage(msg.Err, msg.SignUp)
			return m, nil
		}
		m.authErr = ""
		m.email.SetValue("")
		m.password.SetValue("")
		if u := m.app.State().User; u != nil {
			m.notice = "Signed in as " + u.Email
		}
		return m, m.loadStatuses()

	case statusesLoaded:
		if msg.Err != nil {
			m.logger.Warn("loading stored statuses", zap.Error(msg.Err))
		}
		return m, nil

	case signedOut:
		m.notice = "Signed out"
		if msg.Err != nil {
			m.notice = "Signed out on this device; the server could not be reached"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		st := m.app.State()
		switch {
		case st.AuthPrompt:
			return m.updateAuth(msg)
		case st.ShowForm:
			return m.updateForm(msg)
		default:
			return m.updateResults(msg, st)
		}
	}

	return m, nil
}

func (m Model) fetch(req discovery.Request) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return searchDone{Result: app.Fetch(ctx, req)}
	}
}

func (m Model) changeStatus(b book.Book, status book.Status) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		err := app.ChangeStatus(ctx, b.ID, status)
		return statusSaved{BookID: b.ID, Title: b.Title, Status: status, Err: err}
	}
}

func (m Model) loadStatuses() tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		return statusesLoaded{Err: app.LoadStatuses(ctx)}
	}
}

func (m Model) signIn(email, password string, signUp bool) tea.Cmd {
	sessions, ctx := m.sessions, m.ctx
	return func() tea.Msg {
		var err error
		if signUp {
			err = sessions.SignUp(ctx, email, password)
		} else {
			err = sessions.SignIn(ctx, email, password)
		}
		return authDone{SignUp: signUp, Err: err}
	}
}

func (m Model) signOut() tea.Cmd {
	sessions, ctx := m.sessions, m.ctx
	return func() tea.Msg {
		return signedOut{Err: sessions.SignOut(ctx)}
	}
}

func statusLabel(s book.Status) string {
	switch s {
	case book.StatusToRead:
		return "Want to Read"
	case book.StatusRead:
		return "Read"
	case book.StatusNotInterested:
		return "Not Interested"
	default:
		return string(s)
	}
}

func authErrorMessage(err error, signUp bool) string {
	switch {
	case errors.Is(err, backend.ErrConflict):
		return "That email is already registered."
	case errors.Is(err, backend.ErrUnauthorized):
		return "Invalid email or password."
	case signUp:
		return "Sign-up failed. Please try again."
	default:
		return "Sign-in failed. Please try again."
	}
}

func (m Model) View() string {
	st := m.app.State()

	header := titleStyle.Render("Literary Explorer")
	if st.User != nil {
		header += userStyle.Render("signed in as " + st.User.Email)
	} else {
		header += userStyle.Render("not signed in")
	}

	var body string
	switch {
	case st.AuthPrompt:
		body = m.viewAuth()
	case st.ShowForm:
		body = m.viewForm()
	default:
		body = m.viewResults(st)
	}
	return header + "\n\n" + body + "\n"
}
