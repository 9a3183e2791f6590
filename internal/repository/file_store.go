package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/models"
)

// FileStore keeps the card collection as one JSON file named after the
// namespace key under a data directory.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewFileStore ensures the data directory exists and returns the store.
func NewFileStore(dataDir, namespace string, logger *zap.Logger) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:   filepath.Join(dataDir, namespace+".json"),
		logger: logger,
	}, nil
}

// Append implements CardStore.
func (s *FileStore) Append(ctx context.Context, record models.StudentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	return s.write(prepend(records, record))
}

// ListAll implements CardStore. Read failures degrade to an empty result.
func (s *FileStore) ListAll(ctx context.Context) []models.StudentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		s.logger.Warn("card store unreadable, treating as empty", zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return records
}

// DeleteByID implements CardStore.
func (s *FileStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrEmptyStore
	}
	return s.write(withoutID(records, id))
}

func (s *FileStore) read() ([]models.StudentRecord, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read card store: %w", err)
	}
	var records []models.StudentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode card store: %w", err)
	}
	return records, nil
}

func (s *FileStore) write(records []models.StudentRecord) error {
	if records == nil {
		records = []models.StudentRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode card store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write card store: %w", err)
	}
	return nil
}
