package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// Supported jti strategies.
const (
	JTIStrategyUUID  = "uuid"
	JTIStrategyULID  = "ulid"
	JTIStrategyRedis = "redis"
)

// IdentifierSource produces a unique token identifier per call. Generate may
// block on I/O; implementations own whatever synchronization they need.
type IdentifierSource interface {
	Generate(ctx context.Context) (string, error)
}

// IdentifierSourceFunc adapts a function to IdentifierSource.
type IdentifierSourceFunc func(ctx context.Context) (string, error)

// Generate calls f(ctx).
func (f IdentifierSourceFunc) Generate(ctx context.Context) (string, error) {
	return f(ctx)
}

// UUIDSource issues random version 4 UUIDs.
type UUIDSource struct{}

func (UUIDSource) Generate(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ULIDSource issues lexically sortable ULIDs, monotonic within a millisecond.
// The zero value reads entropy from crypto/rand and uses time.Now.
type ULIDSource struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewULIDSource builds a ULIDSource reading entropy from crypto/rand.
func NewULIDSource() *ULIDSource {
	return &ULIDSource{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (s *ULIDSource) Generate(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	if s.now == nil {
		s.now = time.Now
	}
	id, err := ulid.New(ulid.Timestamp(s.now()), s.entropy)
	if err != nil {
		return "", fmt.Errorf("generate ulid: %w", err)
	}
	return id.String(), nil
}

// Incrementer is the subset of the redis client the counter source uses.
type Incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisCounterSource derives identifiers from an atomic Redis counter.
type RedisCounterSource struct {
	client Incrementer
	key    string
	prefix string
}

// NewRedisCounterSource builds a source incrementing key. Identifiers have
// the form "<prefix>-<n>".
func NewRedisCounterSource(client Incrementer, key, prefix string) *RedisCounterSource {
	return &RedisCounterSource{client: client, key: key, prefix: prefix}
}

func (s *RedisCounterSource) Generate(ctx context.Context) (string, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", s.prefix, n), nil
}

// NewIdentifierSource resolves a strategy name. The redis strategy requires client.
func NewIdentifierSource(strategy string, client Incrementer, redisKey string) (IdentifierSource, error) {
	switch strings.ToLower(strategy) {
	case "", JTIStrategyUUID:
		return UUIDSource{}, nil
	case JTIStrategyULID:
		return NewULIDSource(), nil
	case JTIStrategyRedis:
		if client == nil {
			return nil, fmt.Errorf("jti strategy %q requires a redis client", strategy)
		}
		return NewRedisCounterSource(client, redisKey, "jti"), nil
	default:
		return nil, fmt.Errorf("unknown jti strategy %q", strategy)
	}
}
