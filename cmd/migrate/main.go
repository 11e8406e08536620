package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/emeena/quotation-api/internal/config"
	"github.com/emeena/quotation-api/internal/logger"
	"github.com/emeena/quotation-api/migrations"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const usage = "usage: migrate [up|down|redo|reset|status|version|create NAME]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	command, arguments := args[0], args[1:]

	// create writes a new file on disk and needs no connection
	if command == "create" {
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		return goose.Create(nil, "./migrations", arguments[0], "sql")
	}

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadWithSecrets(context.Background(), log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("SQL migrations only apply to the postgres driver, configured driver is %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "redo":
		err = goose.Redo(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	default:
		return fmt.Errorf("unknown command: %s\n%s", command, usage)
	}
	if err != nil {
		return fmt.Errorf("migrate %s failed: %w", command, err)
	}

	log.Info("migration command completed", zap.String("command", command))
	return nil
}
