package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// releaseScript deletes the lock key only when it still holds our token, so
// an expired lock re-acquired by another run is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// LockManager hands out named locks covering one check-then-act sequence.
// The spreadsheet ingestion layer uses it per file; the upsert engine uses
// it per natural key. A nil *LockManager or a manager without a redis
// client degrades to no-op locking, leaving the database unique indexes as
// the only guard.
type LockManager struct {
	rdb  *redis.Client
	log  *logger.Logger
	ttl  time.Duration
	poll time.Duration
}

func NewLockManager(rdb *redis.Client, log *logger.Logger, ttl time.Duration) *LockManager {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LockManager{
		rdb:  rdb,
		log:  log.With("component", "LockManager"),
		ttl:  ttl,
		poll: 50 * time.Millisecond,
	}
}

// Acquire blocks until the named lock is held or ctx is done. The returned
// release func is safe to call once.
func (m *LockManager) Acquire(ctx context.Context, name string) (func(), error) {
	if m == nil || m.rdb == nil {
		return func() {}, nil
	}
	key := "snowy:lock:" + name
	token := uuid.New().String()
	for {
		ok, err := m.rdb.SetNX(ctx, key, token, m.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", name, ctx.Err())
		case <-time.After(m.poll):
		}
	}
	return func() {
		// Release must not inherit a cancelled ctx.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, m.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
			m.log.Warn("failed to release lock", "lock", name, "error", err)
		}
	}, nil
}

// lockName builds a stable per-natural-key lock name.
func lockName(table string, instanceID uuid.UUID, keyParts ...string) string {
	return strings.Join(append([]string{table, instanceID.String()}, keyParts...), "/")
}
