package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-booking/internal/session"
)

const redisKeyPrefix = "barber:session:"

// Redis stores each session as JSON under a key expiring with the session.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

// NewRedisClient dials addr ("host:port" or a redis:// URL).
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), nil
}

func (r *Redis) Save(ctx context.Context, rec session.Record) error {
	ttl := rec.ExpiresAt.Sub(r.now())
	if rec.ExpiresAt.IsZero() {
		ttl = 0
	} else if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, redisKeyPrefix+rec.ID, raw, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, id string) (session.Record, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, fmt.Errorf("get session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return session.Record{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}
