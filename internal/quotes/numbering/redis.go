package numbering

import (
	"context"

	"crm_console_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "quotes:counter:"

// Seeder reports the highest counter value a tenant has already used in the
// durable store, so a fresh Redis key never hands out a number twice.
type Seeder interface {
	LastNumber(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// incrExisting increments the counter only when the key is present and
// returns -1 otherwise.
var incrExisting = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('INCR', KEYS[1])
end
return -1
`)

// seedAndIncr sets the counter to ARGV[1] unless another caller seeded it
// first, then increments it.
var seedAndIncr = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'NX')
return redis.call('INCR', KEYS[1])
`)

// RedisCounter keeps per-tenant counters in Redis using INCR. A missing key is
// seeded from the Seeder before the first increment.
type RedisCounter struct {
	client redis.UniversalClient
	seeder Seeder
}

// NewRedisCounter creates a counter backed by client and seeded by seeder.
func NewRedisCounter(client redis.UniversalClient, seeder Seeder) *RedisCounter {
	return &RedisCounter{client: client, seeder: seeder}
}

// Increment implements Counter.
func (c *RedisCounter) Increment(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	keys := []string{redisKeyPrefix + tenantID.String()}

	n, err := incrExisting.Run(ctx, c.client, keys).Int64()
	if err != nil {
		return 0, apperr.Storage("increment quote counter", err)
	}
	if n >= 0 {
		return n, nil
	}

	last, err := c.seeder.LastNumber(ctx, tenantID)
	if err != nil {
		return 0, apperr.Storage("load quote counter seed", err)
	}
	n, err = seedAndIncr.Run(ctx, c.client, keys, last).Int64()
	if err != nil {
		return 0, apperr.Storage("seed quote counter", err)
	}
	return n, nil
}
