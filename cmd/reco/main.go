package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reco/internal/backend"
	"reco/internal/config"
	"reco/internal/discovery"
	"reco/internal/platform/openlibrary"
	"reco/internal/session"
	"reco/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "reco:", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	logger, err := config.NewFileLogger(cfg.Env, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	backendClient := backend.NewClient(cfg.BackendURL)
	searchClient := openlibrary.NewClient(cfg.OpenLibraryURL, cfg.OpenLibraryAgent, cfg.OpenLibraryRPS)
	sessions := session.NewContext(backendClient, logger)

	app := discovery.New(searchClient, backendClient, sessions, logger)
	app.Attach()
	defer app.Close()

	logger.Info("starting client",
		zap.String("backend", cfg.BackendURL),
		zap.String("search", cfg.OpenLibraryURL))

	program := tea.NewProgram(tui.New(ctx, app, sessions, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
