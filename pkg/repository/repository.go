package repository

import (
	"context"
	"embed"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	InitRetries     int           // attempts to open the database, 5 if not set
	InitDelay       time.Duration // delay between open attempts, 2s if not set
}

// Repositories contains all repository instances
type Repositories struct {
	Item *ItemRepository
	DB   *sqlx.DB
}

// NewRepositories opens the database, applies the schema and creates repositories.
// Opening is retried a bounded number of times, the last error is returned.
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:newsdigest.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.InitRetries <= 0 {
		cfg.InitRetries = 5
	}
	if cfg.InitDelay <= 0 {
		cfg.InitDelay = 2 * time.Second
	}

	var db *sqlx.DB
	attempt := 0
	err := repeater.NewFixed(cfg.InitRetries, cfg.InitDelay).Do(ctx, func() error {
		attempt++
		var openErr error
		if db, openErr = openDB(ctx, cfg); openErr != nil {
			log.Printf("[WARN] database init attempt %d/%d failed: %v", attempt, cfg.InitRetries, openErr)
			return openErr
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("init database after %d attempts: %w", attempt, err)
	}

	return &Repositories{Item: NewItemRepository(db), DB: db}, nil
}

// openDB makes a single attempt to connect, configure and migrate the database
func openDB(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sqlx.DB) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}
