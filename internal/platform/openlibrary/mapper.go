package openlibrary

import (
	"errors"
	"fmt"
	"strconv"

	"reco/internal/book"
)

// ErrMissingKey is returned for a doc without its unique key.
var ErrMissingKey = errors.New("open library doc has no key")

const (
	PlaceholderCoverURL = "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?auto=format&fit=crop&q=80&w=300&h=400"

	unknownAuthor     = "Unknown Author"
	noSynopsis        = "No synopsis available."
	uncategorized     = "Uncategorized"
	unknownDate       = "Unknown"
	defaultLevel      = "Adult"
	maxGenres         = 5
	fallbackPageCount = 300
	pagesPerHour      = 30
)

// CoverURL returns the large cover image for a cover id.
func CoverURL(coverID int) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", coverID)
}

// ToBook normalizes one doc. Every optional field resolves to a fixed
// default; only a missing key is rejected.
func ToBook(doc Doc) (book.Book, error) {
	if doc.Key == "" {
		return book.Book{}, ErrMissingKey
	}

	b := book.Book{
		ID:              doc.Key,
		Title:           doc.Title,
		Author:          firstOr(doc.AuthorNames, unknownAuthor),
		Synopsis:        firstOr(doc.FirstSentence, noSynopsis),
		Genres:          []string{uncategorized},
		ReadingLevel:    defaultLevel,
		PublicationDate: unknownDate,
		SimilarBooks:    []string{},
		ContentWarnings: []string{},
		CoverURL:        PlaceholderCoverURL,
		ISBN:            firstOr(doc.ISBN, ""),
		Publisher:       firstOr(doc.Publisher, ""),
		Language:        firstOr(doc.Language, ""),
	}

	if len(doc.Subject) > 0 {
		n := min(len(doc.Subject), maxGenres)
		b.Genres = append([]string(nil), doc.Subject[:n]...)
	}
	if doc.FirstPublishYear != nil {
		b.PublicationDate = strconv.Itoa(*doc.FirstPublishYear)
	}
	if doc.RatingsAverage != nil {
		b.AverageRating = *doc.RatingsAverage
	}

	pages := fallbackPageCount
	if doc.NumberOfPagesMedian != nil && *doc.NumberOfPagesMedian > 0 {
		b.PageCount = *doc.NumberOfPagesMedian
		pages = b.PageCount
	}
	b.EstimatedReadingTime = EstimatedReadingTime(pages)

	if doc.CoverID != nil && *doc.CoverID > 0 {
		b.CoverURL = CoverURL(*doc.CoverID)
	}

	return b, nil
}

// EstimatedReadingTime formats ceil(pages/30) as hours.
func EstimatedReadingTime(pages int) string {
	hours := (pages + pagesPerHour - 1) / pagesPerHour
	return fmt.Sprintf("%d hours", hours)
}

func firstOr(values []string, def string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return def
}
