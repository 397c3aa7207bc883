// Package preference holds the state of the reading-preference form.
package preference

import (
	"slices"
	"strings"
)

const (
	MaxGenres        = 3
	RecentBookSlots  = 2
	MinLength        = 100
	MaxLength        = 1000
	LengthStep       = 50
	DefaultMaxLength = 500
)

var (
	Genres = []string{
		"Fiction", "Mystery", "Science Fiction", "Fantasy", "Romance",
		"Historical Fiction", "Literary Fiction", "Thriller", "Horror",
		"Biography", "Non-Fiction", "Poetry",
	}
	ReadingLevels = []string{"Middle Grade", "Young Adult", "Adult", "All Ages"}
	TimePeriods   = []string{"Contemporary", "Classics", "2010s", "2000s", "1990s", "Pre-1990s"}
)

// Preferences is the object emitted when the form is submitted.
// SearchQuery is nil when no query was derived.
type Preferences struct {
	Genres                 []string                `json:"genres"`
	ReadingLevel           string                  `json:"reading_level"`
	RecentBooks            [RecentBookSlots]string `json:"recent_books"`
	TimePeriod             string                  `json:"time_period"`
	MaxLength              int                     `json:"max_length"`
	ContentWarningsToAvoid []string                `json:"content_warnings_to_avoid"`
	SearchQuery            *string                 `json:"search_query,omitempty"`
}

// Form accumulates selections. The zero value is not ready; use NewForm.
type Form struct {
	prefs Preferences
}

func NewForm() *Form {
	return &Form{prefs: Preferences{
		Genres:                 []string{},
		MaxLength:              DefaultMaxLength,
		ContentWarningsToAvoid: []string{},
	}}
}

// ToggleGenre removes a selected genre or adds an unselected one. Adding
// beyond MaxGenres is silently ignored.
func (f *Form) ToggleGenre(genre string) {
	if i := slices.Index(f.prefs.Genres, genre); i >= 0 {
		f.prefs.Genres = slices.Delete(f.prefs.Genres, i, i+1)
		return
	}
	if len(f.prefs.Genres) < MaxGenres {
		f.prefs.Genres = append(f.prefs.Genres, genre)
	}
}

func (f *Form) Genres() []string {
	return slices.Clone(f.prefs.Genres)
}

func (f *Form) HasGenre(genre string) bool {
	return slices.Contains(f.prefs.Genres, genre)
}

func (f *Form) SetReadingLevel(level string) { f.prefs.ReadingLevel = level }

func (f *Form) ReadingLevel() string { return f.prefs.ReadingLevel }

// SetRecentBook sets one of the recent-book slots. Out of range slots are ignored.
func (f *Form) SetRecentBook(slot int, title string) {
	if slot < 0 || slot >= RecentBookSlots {
		return
	}
	f.prefs.RecentBooks[slot] = title
}

func (f *Form) RecentBook(slot int) string {
	if slot < 0 || slot >= RecentBookSlots {
		return ""
	}
	return f.prefs.RecentBooks[slot]
}

func (f *Form) SetTimePeriod(period string) { f.prefs.TimePeriod = period }

func (f *Form) TimePeriod() string { return f.prefs.TimePeriod }

// SetMaxLength clamps pages to [MinLength, MaxLength] and snaps it to the
// nearest LengthStep.
func (f *Form) SetMaxLength(pages int) {
	pages = max(MinLength, min(MaxLength, pages))
	pages = (pages + LengthStep/2) / LengthStep * LengthStep
	f.prefs.MaxLength = pages
}

func (f *Form) MaxLength() int { return f.prefs.MaxLength }

// SetContentWarnings parses a comma separated list, trimming entries and
// dropping empty ones.
func (f *Form) SetContentWarnings(text string) {
	warnings := []string{}
	for _, w := range strings.Split(text, ",") {
		if w = strings.TrimSpace(w); w != "" {
			warnings = append(warnings, w)
		}
	}
	f.prefs.ContentWarningsToAvoid = warnings
}

func (f *Form) ContentWarnings() []string {
	return slices.Clone(f.prefs.ContentWarningsToAvoid)
}

// Submit returns a snapshot of the collected preferences.
//
// The structured selections are not turned into a search query and
// SearchQuery is left nil, so submitting alone never triggers a search.
// No filter or ranking is derived from the selections either.
func (f *Form) Submit() Preferences {
	p := f.prefs
	p.Genres = slices.Clone(f.prefs.Genres)
	p.ContentWarningsToAvoid = slices.Clone(f.prefs.ContentWarningsToAvoid)
	return p
}

// Query returns the search string carried by p, or "" when absent.
func (p Preferences) Query() string {
	if p.SearchQuery == nil {
		return ""
	}
	return *p.SearchQuery
}
