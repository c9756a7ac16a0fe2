package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/officina/workshop-system/internal/core/domain"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotLock serializes enrollment writes for one slot across processes.
// Key format: lock:slot:<slot_id>
type SlotLock struct {
	client redis.Cmdable
	ttl    time.Duration
	token  func() string
}

// NewSlotLock creates a SlotLock. A non-positive ttl uses defaultLockTTL.
func NewSlotLock(client redis.Cmdable, ttl time.Duration) *SlotLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SlotLock{client: client, ttl: ttl, token: uuid.NewString}
}

// Acquire takes the slot lock with SET NX. A held lock yields domain.ErrSlotBusy.
func (l *SlotLock) Acquire(ctx context.Context, slotID string) (func(context.Context) error, error) {
	key := lockKey(slotID)
	token := l.token()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrSlotBusy
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release slot lock: %w", err)
		}
		return nil
	}
	return release, nil
}

func lockKey(slotID string) string {
	return "lock:slot:" + slotID
}
