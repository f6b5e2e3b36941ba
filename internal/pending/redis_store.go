package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pending_booking:"

// Lua script for atomic claim - reads and deletes the entry in one step so
// two concurrent webhook deliveries can never both materialize the booking
const luaAtomicClaim = `
-- KEYS[1] = pending booking key
local value = redis.call("GET", KEYS[1])
if not value then
    return false
end
redis.call("DEL", KEYS[1])
return value
`

// RedisStore holds pending bookings in Redis with a native TTL.
// Expiry is enforced by Redis itself; no sweeper needed.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed pending booking store
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis: redisClient,
		ttl:   ttl,
	}
}

func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

// Store generates a fresh id, stamps CreatedAt and inserts the entry with TTL.
func (s *RedisStore) Store(ctx context.Context, booking *Booking) (string, error) {
	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC()

	data, err := booking.ToJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal pending booking: %w", err)
	}

	if err := s.redis.Set(ctx, keyPrefix+booking.ID, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store pending booking: %w", err)
	}

	return booking.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Booking, error) {
	data, err := s.redis.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending booking: %w", err)
	}

	return FromJSON(data)
}

// Claim atomically reads and removes the entry.
func (s *RedisStore) Claim(ctx context.Context, id string) (*Booking, error) {
	keys := []string{keyPrefix + id}

	result, err := s.redis.EvalSha(ctx, luaAtomicClaim, keys).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = s.redis.Eval(ctx, luaAtomicClaim, keys).Result()
	}
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending booking: %w", err)
	}

	value, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from claim script")
	}

	return FromJSON([]byte(value))
}

// Delete is idempotent; deleting an unknown id is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete pending booking: %w", err)
	}
	return nil
}

// PreloadScripts loads the claim script into Redis for better performance
func (s *RedisStore) PreloadScripts(ctx context.Context) error {
	if _, err := s.redis.ScriptLoad(ctx, luaAtomicClaim).Result(); err != nil {
		return fmt.Errorf("failed to load claim script: %w", err)
	}
	return nil
}
