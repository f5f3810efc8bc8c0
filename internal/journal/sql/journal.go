package sql

import (
	"context"
	"embed"
	"fmt"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/journal"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Journal implements journal.Journal using SQL.
type Journal struct {
	db     *sqlx.DB
	driver string
}

var _ journal.Journal = (*Journal)(nil)

// New connects to the database and runs migrations.
// Supported drivers are "sqlite3" and "postgres".
func New(driver, dsn string) (*Journal, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if driver == "sqlite3" {
		// SQLite serialises writers; one connection also keeps ":memory:"
		// databases from splitting across the pool.
		db.SetMaxOpenConns(1)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Journal{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record inserts an event.
func (j *Journal) Record(ctx context.Context, event *domain.ParseEvent) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO parse_events (id, source, outcome, reason, entities, checksum, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, string(event.Source), string(event.Outcome), event.Reason,
		event.Entities, event.Checksum, event.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording parse event: %w", err)
	}
	return nil
}

// List returns events newest first.
func (j *Journal) List(ctx context.Context, limit, offset int) ([]*domain.ParseEvent, error) {
	events := []*domain.ParseEvent{}
	err := j.db.SelectContext(ctx, &events,
		`SELECT id, source, outcome, reason, entities, checksum, created_at
		 FROM parse_events ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing parse events: %w", err)
	}
	return events, nil
}
