package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
)

type sqlQueries struct {
	list   string
	upsert string
	read   string
}

var (
	sqliteQueries = sqlQueries{
		list: `SELECT name FROM saves ORDER BY name`,
		upsert: `INSERT INTO saves (name, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		read: `SELECT data FROM saves WHERE name = ?`,
	}

	postgresQueries = sqlQueries{
		list: `SELECT name FROM saves ORDER BY name`,
		upsert: `INSERT INTO saves (name, data, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		read: `SELECT data FROM saves WHERE name = $1`,
	}
)

type sqlSaves struct {
	conn    *sql.DB
	queries sqlQueries
}

func NewSQLiteSaveRepository(conn *sql.DB) SaveRepository {
	return &sqlSaves{
		conn:    conn,
		queries: sqliteQueries,
	}
}

func NewPostgresSaveRepository(conn *sql.DB) SaveRepository {
	return &sqlSaves{
		conn:    conn,
		queries: postgresQueries,
	}
}

func (that *sqlSaves) List(ctx context.Context) ([]string, error) {
	rows, err := that.conn.QueryContext(ctx, that.queries.list)
	if err != nil {
		return nil, apperror.IO("can't list saves", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, apperror.IO("can't scan save name", err)
		}

		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, apperror.IO("can't list saves", err)
	}

	return names, nil
}

func (that *sqlSaves) Write(ctx context.Context, name string, blob []byte) error {
	if err := ValidateSaveName(name); err != nil {
		return err
	}

	_, err := that.conn.ExecContext(ctx, that.queries.upsert, name, string(blob), time.Now().UTC().UnixMilli())
	if err != nil {
		return apperror.IO("can't write save "+name, err)
	}

	return nil
}

func (that *sqlSaves) Read(ctx context.Context, name string) ([]byte, error) {
	var data string

	err := that.conn.QueryRowContext(ctx, that.queries.read, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.IO("can't read save "+name, ErrSaveNotFound)
	}

	if err != nil {
		return nil, apperror.IO("can't read save "+name, err)
	}

	return []byte(data), nil
}
