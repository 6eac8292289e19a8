package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("could not acquire ledger lock within timeout")

// NamedMutex is the generic mutual-exclusion primitive the ledger serializes
// writes through. One name per tenant. Acquire blocks up to timeout and
// returns a release func, or ErrLockTimeout. Callers do not retry.
type NamedMutex interface {
	Acquire(ctx context.Context, name string, timeout time.Duration) (release func(), err error)
}

// RedisMutex implements NamedMutex on redis SET NX PX with a polling wait.
// The lock value is a random token so a release can never delete a lock
// another holder re-acquired after expiry.
type RedisMutex struct {
	Client *redis.Client
	// TTL guards against a crashed holder wedging the tenant forever.
	TTL time.Duration
}

func NewRedisMutex(client *redis.Client) *RedisMutex {
	return &RedisMutex{Client: client, TTL: 30 * time.Second}
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (m *RedisMutex) Acquire(ctx context.Context, name string, timeout time.Duration) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := m.Client.SetNX(ctx, name, token, m.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := releaseScript.Run(releaseCtx, m.Client, []string{name}, token).Err(); err != nil {
					// lock expires on its own; nothing more to do
					return
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// LocalMutex is the in-process NamedMutex used when no redis is configured.
type LocalMutex struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewLocalMutex() *LocalMutex {
	return &LocalMutex{locks: make(map[string]chan struct{})}
}

func (m *LocalMutex) Acquire(ctx context.Context, name string, timeout time.Duration) (func(), error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		m.mu.Lock()
		held, ok := m.locks[name]
		if !ok {
			ch := make(chan struct{})
			m.locks[name] = ch
			m.mu.Unlock()
			return func() {
				m.mu.Lock()
				delete(m.locks, name)
				close(ch)
				m.mu.Unlock()
			}, nil
		}
		m.mu.Unlock()

		select {
		case <-held:
			// holder released, race for it again
		case <-timer.C:
			return nil, ErrLockTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
