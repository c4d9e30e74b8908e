package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/port"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultPrefix = "cart:session"

type redisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore maps session tokens to cart ids. Every lookup and bind renews the
// token ttl; a zero ttl keeps tokens forever.
func NewRedisStore(rdb goredis.UniversalClient, prefix string, ttl time.Duration) (port.SessionStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("ttl is negative")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &redisStore{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *redisStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, domain.ErrSessionNotFound
	}

	var (
		raw string
		err error
	)
	if s.ttl > 0 {
		raw, err = s.rdb.GetEx(ctx, s.key(token), s.ttl).Result()
	} else {
		raw, err = s.rdb.Get(ctx, s.key(token)).Result()
	}
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("rdb.Get: %w", err)
	}

	cartID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse[%s]: %w", raw, err)
	}

	return cartID, nil
}

func (s *redisStore) Bind(ctx context.Context, token string, cartID uuid.UUID) error {
	if token == "" {
		return fmt.Errorf("token is empty")
	}

	if err := s.rdb.Set(ctx, s.key(token), cartID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

func (s *redisStore) NewToken() string {
	return uuid.NewString()
}

func (s *redisStore) key(token string) string {
	return s.prefix + ":" + token
}
