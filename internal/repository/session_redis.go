package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"servicebooking/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis; keys expire with the session.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// NewRedisClient dials Redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisSessionStore) Create(ctx context.Context, sess *domain.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.ID), raw, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Revoke drops the key; a missing session behaves like a revoked one.
func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// DeleteStale is a no-op: Redis expires keys on its own.
func (s *RedisSessionStore) DeleteStale(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
