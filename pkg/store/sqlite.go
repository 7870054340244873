package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/matzehuels/lineplanner/pkg/line"
)

const (
	sqliteBusyTimeoutMs = 5000
	connectionTimeout   = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS loading_plan (
	id         TEXT PRIMARY KEY,
	line_no    TEXT NOT NULL DEFAULT '',
	style_no   TEXT NOT NULL DEFAULT '',
	cone_no    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_loading_plan_created ON loading_plan(created_at DESC);
`

// SQLiteStore keeps records in the loading_plan table. The identifying
// columns are queryable; the full record is stored as a JSON payload.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path in WAL mode and
// ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL",
		path, sqliteBusyTimeoutMs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Save(ctx context.Context, r *line.Record) error {
	if err := validate(r); err != nil {
		return err
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO loading_plan (id, line_no, style_no, cone_no, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			line_no = excluded.line_no,
			style_no = excluded.style_no,
			cone_no = excluded.cone_no,
			updated_at = excluded.updated_at,
			payload = excluded.payload`,
		r.ID, r.LineNo, r.StyleNo, r.ConeNo,
		r.CreatedAt.UnixNano(), r.UpdatedAt.UnixNano(), string(payload))
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*line.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM loading_plan WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}
	return decodePayload(id, payload)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*line.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM loading_plan ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []*line.Record
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r, err := decodePayload(id, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM loading_plan WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func decodePayload(id, payload string) (*line.Record, error) {
	var r line.Record
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", id, err)
	}
	return &r, nil
}

var _ Store = (*SQLiteStore)(nil)
