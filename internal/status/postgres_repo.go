package status

import (
	"context"
	"time"

	"reco/internal/book"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Upsert(ctx context.Context, userID, bookID string, status book.Status) error {
	const upsertSQL = `
		INSERT INTO book_statuses (user_id, book_id, status, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, upsertSQL, userID, bookID, string(status))
	return err
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	const listSQL = `
		SELECT book_id, status, updated_at
		FROM book_statuses
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var st string
		if err := rows.Scan(&rec.BookID, &st, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Status = book.Status(st)
		records = append(records, rec)
	}
	return records, rows.Err()
}
