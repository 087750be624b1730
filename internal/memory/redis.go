package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"chat-agent/internal/models"
)

const historyKeyPrefix = "chat:history:"

// RedisStore keeps conversation turns in Redis lists so history survives
// restarts. Turns are pushed to the head and the list is trimmed to the
// bound, newest first on the wire, reversed on read.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

func NewRedisStore(redisURL string, maxTurns int) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{
		client:   client,
		maxTurns: maxTurns,
		ttl:      24 * time.Hour,
	}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func historyKey(threadID string) string {
	return historyKeyPrefix + threadID
}

func (s *RedisStore) RecordTurn(ctx context.Context, threadID, query, response string) error {
	if err := validateThreadID(threadID); err != nil {
		return err
	}

	data, err := json.Marshal(models.Turn{
		Query:     query,
		Response:  response,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode turn: %w", err)
	}

	key := historyKey(threadID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.maxTurns-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}

	return nil
}

func (s *RedisStore) History(ctx context.Context, threadID string) ([]models.Turn, error) {
	if err := validateThreadID(threadID); err != nil {
		return nil, err
	}

	raw, err := s.client.LRange(ctx, historyKey(threadID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	turns := make([]models.Turn, 0, len(raw))
	// LRange returns newest first; walk backwards for oldest-first order.
	for i := len(raw) - 1; i >= 0; i-- {
		var t models.Turn
		if err := json.Unmarshal([]byte(raw[i]), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}

	return turns, nil
}

func (s *RedisStore) Clear(ctx context.Context, threadID string) error {
	if err := validateThreadID(threadID); err != nil {
		return err
	}

	if err := s.client.Del(ctx, historyKey(threadID)).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *RedisStore) Threads(ctx context.Context) ([]models.ThreadInfo, error) {
	var infos []models.ThreadInfo

	iter := s.client.Scan(ctx, 0, historyKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		count, err := s.client.LLen(ctx, key).Result()
		if err != nil {
			continue
		}

		var lastUsed time.Time
		if newest, err := s.client.LIndex(ctx, key, 0).Result(); err == nil {
			var t models.Turn
			if json.Unmarshal([]byte(newest), &t) == nil {
				lastUsed = t.CreatedAt
			}
		}

		infos = append(infos, models.ThreadInfo{
			ThreadID:  strings.TrimPrefix(key, historyKeyPrefix),
			TurnCount: int(count),
			LastUsed:  lastUsed,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan threads: %w", err)
	}

	return infos, nil
}
