package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"reco/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.LoadMigrate()

	if *command == "create" {
		if *name == "" {
			log.Fatal("Name is required for 'create' command")
		}
		if err := goose.Create(nil, cfg.MigrationsDir, *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", config.RedactDSN(cfg.DatabaseDSN), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	if err := run(*command, func(cmd string) error {
		switch cmd {
		case "up":
			return goose.Up(db, cfg.MigrationsDir)
		case "down":
			return goose.Down(db, cfg.MigrationsDir)
		default:
			return goose.Status(db, cfg.MigrationsDir)
		}
	}); err != nil {
		log.Fatal(err)
	}
}

// run validates command and hands it to apply.
func run(command string, apply func(string) error) error {
	switch command {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, create", command)
	}
	if err := apply(command); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	if command != "status" {
		fmt.Printf("Migrations %s applied successfully\n", command)
	}
	return nil
}
