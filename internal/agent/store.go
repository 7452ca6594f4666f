package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"defi-strategy-agent/internal/models"
)

// JobStore caches negotiated job metadata between the acceptance phase and
// the delivery phase, keyed by job id. One entry per id; a later Put for the
// same id overwrites the earlier one.
type JobStore interface {
	Put(ctx context.Context, jobID int64, meta *models.JobMetadata) error
	Get(ctx context.Context, jobID int64) (*models.JobMetadata, error)
	Remove(ctx context.Context, jobID int64) error
	Size(ctx context.Context) (int, error)
}

// MemoryStore is the in-process JobStore. Entries live until explicitly
// removed; an accepted-but-never-delivered job leaves its entry behind.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*models.JobMetadata
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int64]*models.JobMetadata)}
}

func (s *MemoryStore) Put(_ context.Context, jobID int64, meta *models.JobMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jobID] = meta
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID int64) (*models.JobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[jobID], nil
}

func (s *MemoryStore) Remove(_ context.Context, jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jobID)
	return nil
}

func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

const redisKeyPrefix = "jobctx:"

// RedisStore is a JobStore backed by Redis so cached metadata survives a
// process restart. A zero TTL keeps entries until removed.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(jobID int64) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, jobID)
}

func (s *RedisStore) Put(ctx context.Context, jobID int64, meta *models.JobMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal job metadata: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(jobID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store job %d context: %w", jobID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, jobID int64) (*models.JobMetadata, error) {
	data, err := s.client.Get(ctx, redisKey(jobID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load job %d context: %w", jobID, err)
	}
	var meta models.JobMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode job %d context: %w", jobID, err)
	}
	return &meta, nil
}

func (s *RedisStore) Remove(ctx context.Context, jobID int64) error {
	if err := s.client.Del(ctx, redisKey(jobID)).Err(); err != nil {
		return fmt.Errorf("remove job %d context: %w", jobID, err)
	}
	return nil
}

func (s *RedisStore) Size(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan job contexts: %w", err)
	}
	return count, nil
}
