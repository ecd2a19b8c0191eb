package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one document per namespace in a SQLite table.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteStore(ctx context.Context, dbPath string, opts ...StoreOption) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("sqlite path is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	o := applyStoreOptions(opts)
	s := &SQLiteStore{db: db, namespace: o.namespace}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS memory_documents (
		namespace  TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) (*Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM memory_documents WHERE namespace = ?`, s.namespace,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("load memory document: %w", err)
	}
	return Decode([]byte(body))
}

func (s *SQLiteStore) Save(ctx context.Context, doc *Document) error {
	payload, err := Encode(doc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO memory_documents (namespace, body, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(namespace) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		s.namespace, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save memory document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
