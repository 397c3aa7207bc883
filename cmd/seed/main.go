package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"reco/internal/auth"
	"reco/internal/book"
	"reco/internal/config"
	"reco/internal/status"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// demoStatuses are well-known Open Library works.
var demoStatuses = []struct {
	bookID string
	status book.Status
}{
	{"/works/OL893415W", book.StatusRead},
	{"/works/OL27448W", book.StatusToRead},
	{"/works/OL59753W", book.StatusToRead},
	{"/works/OL45804W", book.StatusNotInterested},
}

func main() {
	email := flag.String("email", "demo@example.com", "demo account email")
	password := flag.String("password", "demo-password", "demo account password")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("cannot open database", zap.String("dsn", config.RedactDSN(cfg.DatabaseDSN)), zap.Error(err))
	}
	defer pool.Close()

	users := auth.NewPostgresRepo(pool, cfg.DBTimeout)
	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, users, auth.NewTokenRepo(pool, cfg.DBTimeout))
	statusService := status.NewService(status.NewPostgresRepo(pool, cfg.DBTimeout))

	user, err := authService.SignUp(ctx, *email, *password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		user, err = users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
		if err != nil {
			logger.Fatal("loading existing demo user", zap.Error(err))
		}
		logger.Info("demo user already exists", zap.String("user_id", user.ID))
	case err != nil:
		logger.Fatal("creating demo user", zap.Error(err))
	default:
		logger.Info("demo user created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	}

	for _, s := range demoStatuses {
		if err := statusService.Upsert(ctx, user.ID, s.bookID, s.status); err != nil {
			logger.Fatal("seeding status", zap.String("book_id", s.bookID), zap.Error(err))
		}
	}

	records, err := statusService.List(ctx, user.ID)
	if err != nil {
		logger.Fatal("listing statuses", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("statuses", len(records)))
}
