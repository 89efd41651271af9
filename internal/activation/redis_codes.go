package activation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "otp:v1:"

// compare-and-delete so two verifications cannot both consume the same code,
// even across service instances sharing one Redis.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCodeRegister stores outstanding one-time codes in Redis with a TTL, so
// codes expire on their own and survive process restarts.
type RedisCodeRegister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCodeRegister builds a code register backed by Redis. Codes expire
// after ttl.
func NewRedisCodeRegister(client *redis.Client, ttl time.Duration) *RedisCodeRegister {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCodeRegister{client: client, ttl: ttl}
}

// Put records code as the outstanding code for the email, replacing any prior one.
func (r *RedisCodeRegister) Put(ctx context.Context, email, code string) error {
	if err := r.client.Set(ctx, codeKeyPrefix+email, code, r.ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// Consume atomically removes the outstanding code if it matches the submitted one.
func (r *RedisCodeRegister) Consume(ctx context.Context, email, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, r.client, []string{codeKeyPrefix + email}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume verification code: %w", err)
	}
	return deleted == 1, nil
}
