package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/crucial707/expense-tracker/internal/config"
	"github.com/crucial707/expense-tracker/internal/db"
	"github.com/crucial707/expense-tracker/internal/handlers"
	"github.com/crucial707/expense-tracker/internal/repo"
	"github.com/crucial707/expense-tracker/internal/repo/memory"
	"github.com/crucial707/expense-tracker/internal/service"
)

type auditStore interface {
	service.AuditLogger
	handlers.AuditLister
}

// stores is the storage backend selected by DB_DRIVER.
type stores struct {
	users    service.UserStore
	expenses service.ExpenseStore
	audit    auditStore
	ready    func(context.Context) error
	close    func() error
}

func memoryStores() *stores {
	return &stores{
		users:    memory.NewUsers(),
		expenses: memory.NewExpenses(),
		audit:    memory.NewAudit(),
		ready:    func(context.Context) error { return nil },
		close:    func() error { return nil },
	}
}

func sqlStores(database *sql.DB, dialect repo.Dialect) *stores {
	return &stores{
		users:    repo.NewUserRepo(database, dialect),
		expenses: repo.NewExpenseRepo(database, dialect),
		audit:    repo.NewAuditRepo(database, dialect),
		ready:    database.PingContext,
		close:    database.Close,
	}
}

// openStores connects and migrates the configured database.
func openStores(cfg config.Config) (*stores, error) {
	switch cfg.DBDriver {
	case "memory":
		slog.Warn("using in-memory store; data is lost on restart")
		return memoryStores(), nil

	case "sqlite":
		database, err := db.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.RunSQLite(database); err != nil {
			database.Close()
			return nil, err
		}
		slog.Info("connected to sqlite", "path", cfg.SQLitePath)
		return sqlStores(database, repo.SQLite), nil

	default:
		pg := db.PostgresConfig{
			Host:         cfg.DBHost,
			Port:         cfg.DBPort,
			Name:         cfg.DBName,
			User:         cfg.DBUser,
			Password:     cfg.DBPass,
			SSLMode:      cfg.DBSSLMode,
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
		}
		database, err := db.Connect(pg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.RunPostgres(pg.URL()); err != nil {
			database.Close()
			return nil, err
		}
		slog.Info("connected to postgres", "host", cfg.DBHost, "db", cfg.DBName)
		return sqlStores(database, repo.Postgres), nil
	}
}
