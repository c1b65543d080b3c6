package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// import the PostgreSQL driver to register it with the database/sql package.
	_ "github.com/lib/pq"
)

const (
	maxOpenConns    = 4
	connMaxLifetime = 30 * time.Minute
)

// NewPostgresStorage opens a PostgreSQL connection pool. The schema is
// shared with SQLite, so Init works on both.
func NewPostgresStorage(ctx context.Context, dsn string) (*Storage, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}
