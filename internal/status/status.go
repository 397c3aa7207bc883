// Package status stores the per-book reading status of each user.
package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"reco/internal/book"
)

// ErrEmptyBookID is returned when the book id is blank after trimming.
var ErrEmptyBookID = errors.New("book id is empty")

// Record is one stored status. Writes for the same user and book replace
// each other.
type Record struct {
	BookID    string      `json:"book_id"`
	Status    book.Status `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks reco/internal/status Repository

type Repository interface {
	Upsert(ctx context.Context, userID, bookID string, status book.Status) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Upsert(ctx context.Context, userID, bookID string, status book.Status) error {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return ErrEmptyBookID
	}
	if err := book.ValidateStatus(status); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, userID, bookID, status)
}

func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
