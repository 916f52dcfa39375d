package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow increments the counter and starts its expiry on the first hit,
// so the window is fixed from the first request rather than sliding.
var incrWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {n, redis.call('PTTL', KEYS[1])}
`)

// WindowCounter counts hits per key in fixed time windows.
// Key format: ratelimit:<scope>:<client>
type WindowCounter struct {
	client redis.Scripter
}

func NewWindowCounter(client redis.Scripter) *WindowCounter {
	return &WindowCounter{client: client}
}

// Hit records one request for key and returns the count in the current
// window and the time until the window resets.
func (w *WindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := incrWindow.Run(ctx, w.client, []string{"ratelimit:" + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("rate limit counter: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate limit counter: unexpected reply %v", res)
	}

	reset := time.Duration(res[1]) * time.Millisecond
	if reset < 0 {
		reset = window
	}
	return res[0], reset, nil
}
