package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sebuszqo/ExpenseManager/db/migrations"
	"github.com/sebuszqo/ExpenseManager/internal/config"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
)

// DBService owns the connection pool shared by the credential and category stores.
type DBService struct {
	DB     *sql.DB
	name   string
	logger logging.Logger
}

// NewDBService opens the pool described by cfg and checks it with a ping.
func NewDBService(ctx context.Context, cfg config.Database, logger logging.Logger) (*DBService, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("missing DB_CONNECTION_STRING")
	}

	db, err := sql.Open("pgx", cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	return &DBService{DB: db, name: cfg.Name, logger: logger}, nil
}

// Migrate applies the embedded schema, including the (name, user_id) unique
// index on categories.
func (s *DBService) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("could not set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.DB, "."); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	s.logger.Info(ctx, "database schema is up to date", "database", s.name)
	return nil
}

// Health pings the database and reports pool statistics.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)
	stats["database"] = s.name

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(pingCtx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)
	return stats
}

func (s *DBService) Close() error {
	s.logger.Info(context.Background(), "closing database connection", "database", s.name)
	return s.DB.Close()
}
