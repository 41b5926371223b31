package rushslot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DayLayout is the calendar-day format used in counter keys.
const DayLayout = "2006-01-02"

// KeyTTL bounds how long a day's counter survives in Redis.
const KeyTTL = 48 * time.Hour

const reserveScript = `local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[2])
end
if n > tonumber(ARGV[1]) then
  redis.call("DECR", KEYS[1])
  return 0
end
return 1`

const releaseScript = `local n = tonumber(redis.call("GET", KEYS[1]) or "0")
if n <= 0 then
  return 0
end
return redis.call("DECR", KEYS[1])`

// Counter tracks accepted rush orders per creator per calendar day.
type Counter struct {
	Client *redis.Client
	Prefix string
}

// NewCounter creates a Counter using the default "rush:" key prefix.
func NewCounter(client *redis.Client) *Counter {
	return &Counter{Client: client, Prefix: "rush:"}
}

// Day formats t as the counter's calendar day in UTC.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func (c *Counter) key(creatorID uuid.UUID, day string) string {
	return fmt.Sprintf("%s%s:%s", c.Prefix, creatorID, day)
}

// Count returns the number of rush orders already taken for the day.
func (c *Counter) Count(ctx context.Context, creatorID uuid.UUID, day string) (int, error) {
	if c.Client == nil {
		return 0, errors.New("rushslot: redis client not configured")
	}
	n, err := c.Client.Get(ctx, c.key(creatorID, day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rushslot: count: %w", err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// Reserve takes one slot for the day if fewer than max are taken.
// It reports false without changing the counter when the day is full.
func (c *Counter) Reserve(ctx context.Context, creatorID uuid.UUID, day string, max int) (bool, error) {
	if c.Client == nil {
		return false, errors.New("rushslot: redis client not configured")
	}
	if max <= 0 {
		return false, nil
	}
	res, err := c.Client.Eval(ctx, reserveScript, []string{c.key(creatorID, day)}, max, int(KeyTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("rushslot: reserve: %w", err)
	}
	return res == 1, nil
}

// Release gives back one slot for the day. The counter never drops below zero.
func (c *Counter) Release(ctx context.Context, creatorID uuid.UUID, day string) error {
	if c.Client == nil {
		return errors.New("rushslot: redis client not configured")
	}
	if err := c.Client.Eval(ctx, releaseScript, []string{c.key(creatorID, day)}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("rushslot: release: %w", err)
	}
	return nil
}
