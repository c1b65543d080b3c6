package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// import the SQLite driver to register it with the database/sql package.
	_ "modernc.org/sqlite"
)

const savesTable = `CREATE TABLE IF NOT EXISTS saves (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`

type Storage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("can't create save directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", filepath.Clean(path)+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Init(ctx context.Context) error {
	_, err := that.Connection.ExecContext(ctx, savesTable)
	if err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
