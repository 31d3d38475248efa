package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultWindow is the fixed window length.
	DefaultWindow = 10 * time.Minute
	// DefaultMax is the number of requests admitted per window.
	DefaultMax = 300
	// UnknownKey is the shared bucket for callers that cannot be identified.
	UnknownKey = "unknown"

	shardCount = 16
)

// ErrRateLimitExceeded is matched by errors.Is on rejections.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// ExceededError is returned by Admit when the caller is over quota.
type ExceededError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %q, retry in %s", e.Key, e.RetryAfter.Round(time.Second))
}

func (e *ExceededError) Is(target error) bool { return target == ErrRateLimitExceeded }

type windowEntry struct {
	count       int
	windowStart time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

// Limiter is a fixed-window request counter keyed by client.
// Keys are spread over shards so unrelated clients rarely share a lock.
type Limiter struct {
	window time.Duration
	max    int
	now    func() time.Time
	shards [shardCount]*shard
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a limiter admitting max requests per window.
// Non-positive values fall back to the defaults.
func NewLimiter(window time.Duration, max int, opts ...Option) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}

	l := &Limiter{
		window: window,
		max:    max,
		now:    time.Now,
	}
	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string]*windowEntry)}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit counts one request for key and returns an *ExceededError when the
// key has used its quota for the current window.
func (l *Limiter) Admit(key string) error {
	if key == "" {
		key = UnknownKey
	}
	now := l.now()

	l.purge(now)

	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.entries[key] = &windowEntry{count: 1, windowStart: now}
		return nil
	}

	if now.Sub(entry.windowStart) > l.window {
		entry.count = 1
		entry.windowStart = now
		return nil
	}

	if entry.count >= l.max {
		return &ExceededError{
			Key:        key,
			RetryAfter: entry.windowStart.Add(l.window).Sub(now),
		}
	}

	entry.count++
	return nil
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	total := 0
	for _, s := range l.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// purge drops entries whose window started more than one window ago.
func (l *Limiter) purge(now time.Time) {
	for _, s := range l.shards {
		s.mu.Lock()
		for key, entry := range s.entries {
			if now.Sub(entry.windowStart) > l.window {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

func (l *Limiter) shardFor(key string) *shard {
	return l.shards[xxhash.Sum64String(key)%shardCount]
}
