package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	chunkKeyPrefix = "rag:chunk:"
	chunkSetKey    = "rag:chunks"
)

// RedisStore keeps chunks in Redis: one JSON value per chunk plus a
// set of ids for scanning.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Add(ctx context.Context, chunks []Chunk) error {
	pipe := s.client.TxPipeline()
	for _, c := range chunks {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal chunk %s: %w", c.ID, err)
		}
		pipe.Set(ctx, chunkKeyPrefix+c.ID, data, 0)
		pipe.SAdd(ctx, chunkSetKey, c.ID)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) All(ctx context.Context) ([]Chunk, error) {
	ids, err := s.client.SMembers(ctx, chunkSetKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = chunkKeyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var c Chunk
		if err := json.Unmarshal([]byte(str), &c); err != nil {
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// MemoryStore is the in-process fallback used when Redis is disabled,
// and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(ctx context.Context, chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *MemoryStore) All(ctx context.Context) ([]Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}
