package ids

import (
	"context"
	"fmt"

	"campusbooking/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "campusbooking:ids:"

// seedScript sets KEYS[1] to ARGV[1] unless it already holds a larger value.
const seedScript = `
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if cur < floor then
  redis.call('SET', KEYS[1], floor)
  return floor
end
return cur
`

// Counter is the subset of *redis.Client the allocator uses.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisAllocator keeps one INCR counter per category, shared by every process
// pointed at the same Redis.
type RedisAllocator struct {
	client Counter
}

// NewRedisAllocator returns an allocator backed by client.
func NewRedisAllocator(client Counter) *RedisAllocator {
	return &RedisAllocator{client: client}
}

var _ domain.IDAllocator = (*RedisAllocator)(nil)

func counterKey(category domain.IDCategory) string {
	return keyPrefix + string(category)
}

// Next returns the next id of category.
func (a *RedisAllocator) Next(ctx context.Context, category domain.IDCategory) (int64, error) {
	if !category.Valid() {
		return 0, domain.NewValidationError(fmt.Sprintf("unknown id category %q", category))
	}
	id, err := a.client.Incr(ctx, counterKey(category)).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", category, err)
	}
	return id, nil
}

// Seed raises the counter of category to at least floor.
func (a *RedisAllocator) Seed(ctx context.Context, category domain.IDCategory, floor int64) error {
	if !category.Valid() {
		return domain.NewValidationError(fmt.Sprintf("unknown id category %q", category))
	}
	if err := a.client.Eval(ctx, seedScript, []string{counterKey(category)}, floor).Err(); err != nil {
		return fmt.Errorf("seed %s: %w", category, err)
	}
	return nil
}
