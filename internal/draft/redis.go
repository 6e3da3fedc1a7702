package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "salon:draft:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore stores drafts as JSON; every save or touch resets the expiry to ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*Draft, error) {
	val, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft failed: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, fmt.Errorf("decode draft failed: %w", err)
	}
	return &d, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, d *Draft) error {
	val, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft failed: %w", err)
	}
	if err := s.client.Set(ctx, key(sessionID), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft failed: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete draft failed: %w", err)
	}
	return nil
}

func (s *redisStore) Touch(ctx context.Context, sessionID string) error {
	ok, err := s.client.Expire(ctx, key(sessionID), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("touch draft failed: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
