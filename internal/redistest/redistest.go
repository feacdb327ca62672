// Package redistest provides an in-memory stand-in for the slice of
// the redis API the gateway uses, so package tests can run without a
// redis instance. Entries honor their TTLs against an overridable
// clock.
package redistest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	val      string
	deadline time.Time // zero means no expiry
}

type Fake struct {
	mu      sync.Mutex
	entries map[string]entry

	// Now can be swapped to step time forward in TTL tests.
	Now func() time.Time
}

func New() *Fake {
	return &Fake{
		entries: make(map[string]entry),
		Now:     time.Now,
	}
}

func (f *Fake) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := entry{val: asString(value)}
	if expiration > 0 {
		e.deadline = f.Now().Add(expiration)
	}
	f.entries[key] = e
	return redis.NewStatusResult("OK", nil)
}

func (f *Fake) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.live(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(e.val, nil)
}

func (f *Fake) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.live(key); ok {
			n++
		}
		delete(f.entries, key)
	}
	return redis.NewIntResult(n, nil)
}

func (f *Fake) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	if e, ok := f.live(key); ok {
		n, _ = strconv.ParseInt(e.val, 10, 64)
	}
	n++
	e := f.entries[key]
	e.val = strconv.FormatInt(n, 10)
	f.entries[key] = e
	return redis.NewIntResult(n, nil)
}

func (f *Fake) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.live(key)
	if !ok {
		return redis.NewBoolResult(false, nil)
	}
	e.deadline = f.Now().Add(expiration)
	f.entries[key] = e
	return redis.NewBoolResult(true, nil)
}

func (f *Fake) TTL(ctx context.Context, key string) *redis.DurationCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.live(key)
	if !ok {
		return redis.NewDurationResult(-2*time.Second, nil)
	}
	if e.deadline.IsZero() {
		return redis.NewDurationResult(-1*time.Second, nil)
	}
	return redis.NewDurationResult(e.deadline.Sub(f.Now()), nil)
}

// live returns the entry for key, dropping it if expired. Callers must
// hold the mutex.
func (f *Fake) live(key string) (entry, bool) {
	e, ok := f.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.deadline.IsZero() && !f.Now().Before(e.deadline) {
		delete(f.entries, key)
		return entry{}, false
	}
	return e, true
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
