package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/models"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS card_collections (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps the card collection as the JSON value of a single row in
// a key/value table. The table is deliberately not relational: the store
// contract is one namespaced key holding the whole ordered collection.
type SQLiteStore struct {
	db     *sqlx.DB
	key    string
	mu     sync.Mutex
	logger *zap.Logger
}

// OpenSQLite opens (creating parent directories as needed) the SQLite file
// and applies the store schema.
func OpenSQLite(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare sqlite schema: %w", err)
	}
	return db, nil
}

// NewSQLiteStore wraps an opened database with the namespaced key.
func NewSQLiteStore(db *sqlx.DB, namespace string, logger *zap.Logger) *SQLiteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStore{db: db, key: namespace, logger: logger}
}

// Append implements CardStore.
func (s *SQLiteStore) Append(ctx context.Context, record models.StudentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return err
	}
	return s.write(ctx, prepend(records, record))
}

// ListAll implements CardStore. Read failures degrade to an empty result.
func (s *SQLiteStore) ListAll(ctx context.Context) []models.StudentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("card store unreadable, treating as empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	return records
}

// DeleteByID implements CardStore.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrEmptyStore
	}
	return s.write(ctx, withoutID(records, id))
}

func (s *SQLiteStore) read(ctx context.Context) ([]models.StudentRecord, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, "SELECT value FROM card_collections WHERE key = ?", s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read card store: %w", err)
	}
	var records []models.StudentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode card store: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) write(ctx context.Context, records []models.StudentRecord) error {
	if records == nil {
		records = []models.StudentRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode card store: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO card_collections (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		s.key, string(raw))
	if err != nil {
		return fmt.Errorf("write card store: %w", err)
	}
	return nil
}
