package redisstore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/caseforge/casechat/internal/transcript"
)

// transcriptCacheKey backs the admin log view. No TTL: the cache is
// invalidated explicitly by the refresh action and after deletes.
const transcriptCacheKey = "admin:transcripts"

type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) GetTranscriptCache(ctx context.Context) ([]transcript.Turn, bool, error) {
	raw, err := s.rdb.Get(ctx, transcriptCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var turns []transcript.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, false, err
	}
	return turns, true, nil
}

func (s *Store) SetTranscriptCache(ctx context.Context, turns []transcript.Turn) error {
	raw, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, transcriptCacheKey, raw, 0).Err()
}

func (s *Store) InvalidateTranscriptCache(ctx context.Context) error {
	return s.rdb.Del(ctx, transcriptCacheKey).Err()
}
