package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a token bucket for a single identity.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	identity   string
	parent     *KeyedRateLimiter
}

// KeyedRateLimiter manages token buckets per identity (IP, email, ...).
// Idle buckets expire so the map does not grow without bound.
type KeyedRateLimiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate, capacity float64, expirationTime time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func (krl *KeyedRateLimiter) cleanup(identity string) {
	krl.mu.Lock()
	delete(krl.buckets, identity)
	krl.mu.Unlock()
}

func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.cleanup(b.identity)
	})
}

func (krl *KeyedRateLimiter) getBucket(identity string) *bucket {
	krl.mu.RLock()
	b, exists := krl.buckets[identity]
	krl.mu.RUnlock()
	if exists {
		b.resetTimer()
		return b
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	// double-check after acquiring the write lock
	if b, exists = krl.buckets[identity]; exists {
		b.resetTimer()
		return b
	}

	b = &bucket{
		tokens:     krl.capacity,
		capacity:   krl.capacity,
		rate:       krl.rate,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     krl,
	}
	krl.buckets[identity] = b
	b.resetTimer()
	return b
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()

	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Allow reports whether a request for identity may proceed.
func (krl *KeyedRateLimiter) Allow(identity string) bool {
	return krl.getBucket(identity).allow()
}

// Common presets used by the router.

func OnceInSecond() *KeyedRateLimiter { return New(1, 1, 1*time.Hour) }
func Rps100() *KeyedRateLimiter       { return New(100, 100, 1*time.Hour) }
func Rps1000() *KeyedRateLimiter      { return New(1000, 1000, 1*time.Hour) }

// Stop cancels all expiry timers.
func (krl *KeyedRateLimiter) Stop() {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	for _, b := range krl.buckets {
		if b.timer != nil {
			b.timer.Stop()
		}
	}
}
