// Package discovery holds the state of the book-discovery screen: the
// submitted preferences, the current search, the loaded page, the sort
// selection and the per-book statuses of the signed-in user.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"reco/internal/book"
	"reco/internal/preference"
	"reco/internal/session"

	"go.uber.org/zap"
)

// ErrAuthRequired is returned by ChangeStatus when nobody is signed in.
var ErrAuthRequired = errors.New("sign in required")

// SearchFailedMessage is shown for any failed search.
const SearchFailedMessage = "An error occurred while fetching books. Please try again."

type Searcher interface {
	Search(ctx context.Context, query string, page int) (book.Page, error)
}

type StatusStore interface {
	UpsertStatus(ctx context.Context, accessToken, bookID string, status book.Status) error
	ListStatuses(ctx context.Context, accessToken string) (map[string]book.Status, error)
}

// Request identifies one issued search. Generation increases with every
// request so a late response for an older one can be recognized.
type Request struct {
	Generation uint64
	Query      string
	Page       int
}

type Result struct {
	Request Request
	Page    book.Page
	Err     error
}

// State is a snapshot for rendering.
type State struct {
	ShowForm    bool
	Query       string
	Page        int
	TotalPages  int
	Total       int
	Loading     bool
	Err         string
	Books       []book.Book
	Sort        book.SortOption
	Statuses    map[string]book.Status
	AuthPrompt  bool
	User        *session.User
	Preferences *preference.Preferences
}

type App struct {
	searcher Searcher
	statuses StatusStore
	sessions *session.Context
	logger   *zap.Logger

	mu         sync.Mutex
	sub        *session.Subscription
	current    *session.Session
	prefs      *preference.Preferences
	showForm   bool
	query      string
	page       int
	generation uint64
	loading    bool
	err        string
	loaded     book.Page
	books      []book.Book
	sortOption book.SortOption
	statusMap  map[string]book.Status
	authPrompt bool
}

func New(searcher Searcher, statuses StatusStore, sessions *session.Context, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		searcher:   searcher,
		statuses:   statuses,
		sessions:   sessions,
		logger:     logger,
		showForm:   true,
		page:       1,
		sortOption: book.SortRating,
		statusMap:  make(map[string]book.Status),
	}
}

// Attach subscribes to session changes. It is paired with Close.
func (a *App) Attach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sub != nil {
		return
	}
	a.current = a.sessions.Current()
	a.sub = a.sessions.Subscribe(a.onSession)
}

// Close releases the session subscription.
func (a *App) Close() {
	a.mu.Lock()
	sub := a.sub
	a.sub = nil
	a.mu.Unlock()
	sub.Unsubscribe()
}

func (a *App) onSession(s *session.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = s
	if s != nil {
		a.authPrompt = false
		return
	}
	a.statusMap = make(map[string]book.Status)
}

// SubmitPreferences stores p, hides the form and searches for the query it
// carries. An absent query searches for nothing and ok is false.
func (a *App) SubmitPreferences(p preference.Preferences) (Request, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prefs = &p
	a.showForm = false
	a.startQuery(p.Query())
	return a.issue()
}

// ShowPreferences brings the form back.
func (a *App) ShowPreferences() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.showForm = true
}

// Search starts a new query from page one.
func (a *App) Search(query string) (Request, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startQuery(query)
	return a.issue()
}

// startQuery forgets the previous query's results so their totals never
// bound paging of the new one.
func (a *App) startQuery(query string) {
	a.query = query
	a.page = 1
	a.loaded = book.Page{}
	a.books = nil
}

// SetPage moves to another page of the current query. Pages outside
// [1, TotalPages] are ignored. The current page is accepted again only
// after its fetch failed, which retries it.
func (a *App) SetPage(page int) (Request, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if page < 1 {
		return Request{}, false
	}
	retry := page == a.page && a.err != ""
	if page == a.page && !retry {
		return Request{}, false
	}
	if total := book.TotalPages(a.loaded.Total); !retry && page > total {
		return Request{}, false
	}
	a.page = page
	return a.issue()
}

func (a *App) issue() (Request, bool) {
	if a.query == "" {
		return Request{}, false
	}
	a.generation++
	a.loading = true
	a.err = ""
	return Request{Generation: a.generation, Query: a.query, Page: a.page}, true
}

// Fetch runs the search for req. It does not touch the state; pass the
// result to Apply.
func (a *App) Fetch(ctx context.Context, req Request) Result {
	page, err := a.searcher.Search(ctx, req.Query, req.Page)
	return Result{Request: req, Page: page, Err: err}
}

// Apply installs res if it answers the most recent request and reports
// whether it did. Responses to superseded requests are dropped.
func (a *App) Apply(res Result) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if res.Request.Generation != a.generation {
		a.logger.Debug("dropping stale search result",
			zap.Uint64("generation", res.Request.Generation),
			zap.Uint64("latest", a.generation),
			zap.String("query", res.Request.Query))
		return false
	}
	a.loading = false
	if res.Err != nil {
		a.logger.Warn("search failed",
			zap.String("query", res.Request.Query),
			zap.Int("page", res.Request.Page),
			zap.Error(res.Err))
		a.err = SearchFailedMessage
		return true
	}
	a.err = ""
	a.loaded = res.Page
	a.books = book.Sort(res.Page.Books, a.sortOption)
	return true
}

// SetSort orders the loaded page by option.
func (a *App) SetSort(option book.SortOption) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sortOption = option
	a.books = book.Sort(a.books, option)
}

// ChangeStatus records status for bookID. Without a session it only raises
// the sign-in prompt. Otherwise the local map is updated first and the
// remote write follows; when the write fails the local entry is restored to
// its previous value, unless another change has replaced it meanwhile.
func (a *App) ChangeStatus(ctx context.Context, bookID string, status book.Status) error {
	if err := book.ValidateStatus(status); err != nil {
		return err
	}

	a.mu.Lock()
	s := a.current
	if s == nil {
		a.authPrompt = true
		a.mu.Unlock()
		return ErrAuthRequired
	}
	prev, hadPrev := a.statusMap[bookID]
	a.statusMap[bookID] = status
	a.mu.Unlock()

	err := a.statuses.UpsertStatus(ctx, s.AccessToken, bookID, status)
	if err == nil {
		return nil
	}

	a.logger.Error("saving book status",
		zap.String("user_id", s.User.ID),
		zap.String("book_id", bookID),
		zap.String("status", string(status)),
		zap.Error(err))

	a.mu.Lock()
	if a.statusMap[bookID] == status {
		if hadPrev {
			a.statusMap[bookID] = prev
		} else {
			delete(a.statusMap, bookID)
		}
	}
	a.mu.Unlock()
	return fmt.Errorf("saving status for %s: %w", bookID, err)
}

// LoadStatuses merges the stored statuses of the signed-in user into the
// local map. Local entries win over stored ones. Nothing is merged when the
// session changed while the list was in flight.
func (a *App) LoadStatuses(ctx context.Context) error {
	a.mu.Lock()
	s := a.current
	a.mu.Unlock()
	if s == nil {
		return ErrAuthRequired
	}

	stored, err := a.statuses.ListStatuses(ctx, s.AccessToken)
	if err != nil {
		return fmt.Errorf("loading statuses: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil || a.current.AccessToken != s.AccessToken {
		a.logger.Debug("discarding statuses of a previous session", zap.String("user_id", s.User.ID))
		return nil
	}
	for id, st := range stored {
		if _, ok := a.statusMap[id]; !ok {
			a.statusMap[id] = st
		}
	}
	return nil
}

func (a *App) RequestAuth() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authPrompt = true
}

func (a *App) DismissAuthPrompt() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authPrompt = false
}

func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := State{
		ShowForm:   a.showForm,
		Query:      a.query,
		Page:       a.page,
		TotalPages: book.TotalPages(a.loaded.Total),
		Total:      a.loaded.Total,
		Loading:    a.loading,
		Err:        a.err,
		Books:      append([]book.Book(nil), a.books...),
		Sort:       a.sortOption,
		Statuses:   maps.Clone(a.statusMap),
		AuthPrompt: a.authPrompt,
	}
	if a.current != nil {
		u := a.current.User
		st.User = &u
	}
	if a.prefs != nil {
		p := *a.prefs
		st.Preferences = &p
	}
	return st
}
