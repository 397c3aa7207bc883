package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"reco/internal/backend"
	"reco/internal/book"
	"reco/internal/discovery"
	"reco/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	pages map[string]book.Page
	calls []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, page int) (book.Page, error) {
	f.calls = append(f.calls, query)
	p, ok := f.pages[query]
	if !ok {
		return book.Page{}, errors.New("no such query")
	}
	return p, nil
}

type fakeStatusStore struct {
	mu      sync.Mutex
	saved   map[string]book.Status
	failing bool
}

func (f *fakeStatusStore) UpsertStatus(_ context.Context, _, bookID string, status book.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("backend unavailable")
	}
	f.saved[bookID] = status
	return nil
}

func (f *fakeStatusStore) ListStatuses(context.Context, string) (map[string]book.Status, error) {
	return map[string]book.Status{"/works/OL9W": book.StatusRead}, nil
}

type fakeAuth struct {
	password string
}

func (f *fakeAuth) SignUp(context.Context, string, string) error { return backend.ErrConflict }

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (*session.Session, error) {
	if password != f.password {
		return nil, &backend.APIError{StatusCode: 401, Code: "UNAUTHORIZED"}
	}
	return &session.Session{AccessToken: "tok", User: session.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAuth) SignOut(context.Context, string) error { return nil }

type harness struct {
	model    Model
	searcher *fakeSearcher
	store    *fakeStatusStore
	app      *discovery.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	searcher := &fakeSearcher{pages: map[string]book.Page{
		"dune": {Total: 25, Books: []book.Book{
			{ID: "/works/OL1W", Title: "Dune", Author: "Frank Herbert", AverageRating: 4.2, PageCount: 600},
			{ID: "/works/OL2W", Title: "Dune Messiah", Author: "Frank Herbert", AverageRating: 3.9, PageCount: 250},
		}},
		"emma": {Total: 1, Books: []book.Book{{ID: "/works/OL3W", Title: "Emma", Author: "Jane Austen"}}},
	}}
	store := &fakeStatusStore{saved: map[string]book.Status{}}
	sessions := session.NewContext(&fakeAuth{password: "secret123"}, nil)
	app := discovery.New(searcher, store, sessions, nil)
	app.Attach()
	t.Cleanup(app.Close)

	return &harness{
		model:    New(context.Background(), app, sessions, nil),
		searcher: searcher,
		store:    store,
		app:      app,
	}
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// send delivers msg and returns the command it produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(keyMsg(k))
	}
	return cmd
}

// run executes cmd and feeds its message back. Only call it with commands
// that do not block, such as searches and sign-in; focus commands blink.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case searchDone, statusSaved, authDone, statusesLoaded, signedOut:
		h.run(h.send(msg))
	}
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) search(query string) {
	h.press("/")
	h.typeText(query)
	h.run(h.press("enter"))
}

func TestModel_FormSubmitShowsResultsWithoutSearching(t *testing.T) {
	h := newHarness(t)

	h.press("space", "right", "space")
	h.press("tab", "right")
	h.press("tab")
	h.typeText("Piranesi")
	h.run(h.press("enter"))

	st := h.app.State()
	assert.False(t, st.ShowForm)
	require.NotNil(t, st.Preferences)
	assert.Equal(t, []string{"Fiction", "Mystery"}, st.Preferences.Genres)
	assert.Equal(t, "Middle Grade", st.Preferences.ReadingLevel)
	assert.Equal(t, "Piranesi", st.Preferences.RecentBooks[0])
	assert.Nil(t, st.Preferences.SearchQuery)
	assert.Empty(t, h.searcher.calls)
	assert.Contains(t, h.model.View(), "Press / and type")
}

func TestModel_FormLengthStepsAndClamps(t *testing.T) {
	h := newHarness(t)
	for range 5 {
		h.press("tab")
	}

	h.press("right", "right")
	assert.Equal(t, 600, h.model.form.MaxLength())

	for range 20 {
		h.press("right")
	}
	assert.Equal(t, 1000, h.model.form.MaxLength())
}

func TestModel_SearchRendersSortedResults(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	h.search("dune")

	st := h.app.State()
	assert.Equal(t, []string{"/works/OL1W", "/works/OL2W"}, []string{st.Books[0].ID, st.Books[1].ID})
	assert.Equal(t, 3, st.TotalPages)
	view := h.model.View()
	assert.Contains(t, view, "Dune Messiah")
	assert.Contains(t, view, "Page 1 of 3")

	h.press("l")
	assert.Equal(t, "/works/OL2W", h.app.State().Books[0].ID)
}

func TestModel_StaleSearchIsDropped(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	h.press("/")
	h.typeText("dune")
	stale := h.press("enter")
	h.press("/")
	for range 4 {
		h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	h.typeText("emma")
	fresh := h.press("enter")

	h.run(fresh)
	h.run(stale)

	books := h.app.State().Books
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)
}

func TestModel_SearchErrorShowsMessage(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	h.search("unknown")

	assert.Contains(t, h.model.View(), discovery.SearchFailedMessage)
}

func TestModel_StatusWithoutSessionOpensSignIn(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.search("dune")

	h.press("t")

	st := h.app.State()
	assert.True(t, st.AuthPrompt)
	assert.Empty(t, st.Statuses)
	assert.Empty(t, h.store.saved)
	assert.Contains(t, h.model.View(), "Sign in to track your books")

	h.press("esc")
	assert.False(t, h.app.State().AuthPrompt)
}

func TestModel_SignInThenTrackStatus(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.search("dune")

	h.press("s")
	h.typeText("a@example.com")
	h.press("tab")
	h.typeText("secret123")
	h.run(h.press("enter"))

	st := h.app.State()
	require.NotNil(t, st.User)
	assert.False(t, st.AuthPrompt)
	assert.Equal(t, book.StatusRead, st.Statuses["/works/OL9W"])

	h.run(h.press("j", "x"))

	assert.Equal(t, book.StatusRead, h.store.saved["/works/OL2W"])
	assert.Contains(t, h.model.View(), `"Dune Messiah" marked as Read`)

	h.run(h.press("o"))
	st = h.app.State()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Statuses)
}

func TestModel_SignInFailureStaysOpen(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.press("s")
	h.typeText("a@example.com")
	h.press("tab")
	h.typeText("wrong")

	h.run(h.press("enter"))

	assert.True(t, h.app.State().AuthPrompt)
	assert.Contains(t, h.model.View(), "Invalid email or password.")

	h.run(h.press("ctrl+u"))
	assert.Contains(t, h.model.View(), "That email is already registered.")
}

func TestModel_FailedStatusWriteRollsBack(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.search("dune")
	h.press("s")
	h.typeText("a@example.com")
	h.press("tab")
	h.typeText("secret123")
	h.run(h.press("enter"))

	h.store.failing = true
	h.run(h.press("t"))

	assert.NotContains(t, h.app.State().Statuses, "/works/OL1W")
	assert.True(t, strings.Contains(h.model.View(), "Could not save"))
}

func TestModel_RetryAfterSearchError(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.search("unknown")
	require.Contains(t, h.model.View(), "R retry")

	h.searcher.pages["unknown"] = book.Page{Total: 1, Books: []book.Book{{ID: "/works/OL5W", Title: "Found"}}}
	h.run(h.press("R"))

	st := h.app.State()
	assert.Empty(t, st.Err)
	require.Len(t, st.Books, 1)
	assert.Equal(t, "Found", st.Books[0].Title)
	assert.Equal(t, []string{"unknown", "unknown"}, h.searcher.calls)
}

func TestModel_Paging(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.search("dune")

	cmd := h.press("n")
	require.NotNil(t, cmd)
	assert.Equal(t, 2, h.app.State().Page)

	assert.Nil(t, h.press("b", "b", "b"))
}

func TestCycle(t *testing.T) {
	opts := []string{"a", "b", "c"}
	assert.Equal(t, "a", cycle(opts, "", 1))
	assert.Equal(t, "c", cycle(opts, "", -1))
	assert.Equal(t, "a", cycle(opts, "c", 1))
	assert.Equal(t, "b", cycle(opts, "c", -1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
