package book

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a status value is not one of the known statuses.
var ErrInvalidStatus = errors.New("invalid status")

// Book is the normalized representation of one search result.
type Book struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Author               string   `json:"author"`
	Synopsis             string   `json:"synopsis"`
	Genres               []string `json:"genres"`
	ReadingLevel         string   `json:"reading_level"`
	PublicationDate      string   `json:"publication_date"`
	PageCount            int      `json:"page_count"`
	AverageRating        float64  `json:"average_rating"`
	Popularity           float64  `json:"popularity"`
	EstimatedReadingTime string   `json:"estimated_reading_time"`
	SimilarBooks         []string `json:"similar_books"`
	ContentWarnings      []string `json:"content_warnings"`
	CoverURL             string   `json:"cover_url"`
	ISBN                 string   `json:"isbn,omitempty"`
	Publisher            string   `json:"publisher,omitempty"`
	Language             string   `json:"language,omitempty"`
}

// Page is one page of search results. Total is the match count reported by
// the remote source and is independent of the page size.
type Page struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
}

// Status is a user-specific tag attached to a book.
type Status string

const (
	StatusToRead        Status = "toRead"
	StatusRead          Status = "read"
	StatusNotInterested Status = "notInterested"
)

// ValidateStatus reports an error wrapping ErrInvalidStatus for unknown values.
func ValidateStatus(status Status) error {
	switch status {
	case StatusToRead, StatusRead, StatusNotInterested:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}
}

// SortOption selects the ordering applied to a loaded page.
type SortOption string

const (
	SortPublicationDate SortOption = "publicationDate"
	SortRating          SortOption = "rating"
	SortLength          SortOption = "length"
	SortPopularity      SortOption = "popularity"
)

// SortOptions lists the options in the order they are offered to the user.
var SortOptions = []SortOption{SortPublicationDate, SortRating, SortLength, SortPopularity}

// Label returns the short display name of the option.
func (o SortOption) Label() string {
	switch o {
	case SortPublicationDate:
		return "Date"
	case SortRating:
		return "Rating"
	case SortLength:
		return "Length"
	case SortPopularity:
		return "Popularity"
	default:
		return string(o)
	}
}
