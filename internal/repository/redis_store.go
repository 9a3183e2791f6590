package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/models"
	"github.com/unity-school/idcard-api/pkg/config"
)

// RedisStore keeps the card collection as one JSON value under a single
// namespaced key. It preserves the same wholesale read-modify-write contract
// as the file store; the mutex serialises the sequence because the value is
// rewritten in full.
type RedisStore struct {
	client *redis.Client
	key    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewRedisClient returns a configured and pinged Redis client.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// NewRedisStore wraps a client with the namespaced collection key.
func NewRedisStore(client *redis.Client, namespace string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, key: namespace, logger: logger}
}

// Append implements CardStore.
func (s *RedisStore) Append(ctx context.Context, record models.StudentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return err
	}
	return s.write(ctx, prepend(records, record))
}

// ListAll implements CardStore. Read failures degrade to an empty result.
func (s *RedisStore) ListAll(ctx context.Context) []models.StudentRecord {
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
func (s *RedisStore) DeleteByID(ctx context.Context, id string) error {
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

func (s *RedisStore) read(ctx context.Context) ([]models.StudentRecord, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
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

func (s *RedisStore) write(ctx context.Context, records []models.StudentRecord) error {
	if records == nil {
		records = []models.StudentRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode card store: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("write card store: %w", err)
	}
	return nil
}
