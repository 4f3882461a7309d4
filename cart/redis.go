package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

// RedisStore keeps each cart as a JSON value with a sliding TTL, so an
// abandoned cart expires on its own.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) Key(userID uint) string {
	return "cart:" + strconv.FormatUint(uint64(userID), 10)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) read(ctx context.Context, g stringGetter, key string) (*Cart, error) {
	data, err := g.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) Load(ctx context.Context, userID uint) (*Cart, error) {
	return s.read(ctx, s.Client, s.Key(userID))
}

// Update runs fn inside a WATCH/MULTI transaction and retries when another
// writer touched the same cart in between.
func (s *RedisStore) Update(ctx context.Context, userID uint, fn func(*Cart) error) (*Cart, error) {
	key := s.Key(userID)
	var out *Cart

	txf := func(tx *redis.Tx) error {
		c, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		payload, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if c.IsEmpty() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, s.TTL)
			return nil
		})
		if err == nil {
			out = c
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, userID uint) error {
	return s.Client.Del(ctx, s.Key(userID)).Err()
}
