package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type memoryRow struct {
	bun.BaseModel `bun:"table:agent_memory,alias:am"`

	Namespace string    `bun:"namespace,pk"`
	Body      string    `bun:"body,type:text,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// PostgresStore keeps one document per namespace in Postgres.
type PostgresStore struct {
	db        *bun.DB
	namespace string
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig, opts ...StoreOption) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	o := applyStoreOptions(opts)
	s := &PostgresStore{db: db, namespace: o.namespace}

	if _, err := db.NewCreateTable().
		Model((*memoryRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create agent_memory table: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Document, error) {
	var row memoryRow
	err := s.db.NewSelect().
		Model(&row).
		Where("namespace = ?", s.namespace).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("load memory document: %w", err)
	}
	return Decode([]byte(row.Body))
}

func (s *PostgresStore) Save(ctx context.Context, doc *Document) error {
	payload, err := Encode(doc)
	if err != nil {
		return err
	}

	row := &memoryRow{
		Namespace: s.namespace,
		Body:      string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (namespace) DO UPDATE").
		Set("body = EXCLUDED.body").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("save memory document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
