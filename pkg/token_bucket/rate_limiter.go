package token_bucket

import (
	"sync"
	"time"
)

/*
Алгоритм простой: Allow возвращает true/false,
то есть мы либо принимаем запрос, либо отклоняем.
Токены копятся дробно, чтобы медленная скорость пополнения не терялась на округлении.
*/

type Limiter interface {
	Allow() bool
}

type TokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill(time.Now())

	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

func (t *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	t.tokens += elapsed * t.refillRate
	if t.tokens > t.capacity {
		t.tokens = t.capacity
	}
	t.lastRefill = now
}

// full сообщает, что ведро полностью восстановилось и его можно выселить.
func (t *TokenBucket) full(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill(now)
	return t.tokens >= t.capacity
}

// Keyed держит отдельное ведро на каждый ключ (пользователь, адрес клиента).
type Keyed struct {
	capacity   int
	refillRate float64
	idleTTL    time.Duration

	mu        sync.Mutex
	buckets   map[string]*keyedEntry
	lastSweep time.Time
}

type keyedEntry struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

func NewKeyed(capacity int, refillRate float64, idleTTL time.Duration) *Keyed {
	return &Keyed{
		capacity:   capacity,
		refillRate: refillRate,
		idleTTL:    idleTTL,
		buckets:    make(map[string]*keyedEntry),
		lastSweep:  time.Now(),
	}
}

func (k *Keyed) AllowKey(key string) bool {
	now := time.Now()

	k.mu.Lock()
	entry, ok := k.buckets[key]
	if !ok {
		entry = &keyedEntry{bucket: NewTokenBucket(k.capacity, k.refillRate)}
		k.buckets[key] = entry
	}
	entry.lastSeen = now
	k.sweep(now)
	k.mu.Unlock()

	return entry.bucket.Allow()
}

// Len возвращает количество отслеживаемых ключей.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// sweep вызывается под k.mu
func (k *Keyed) sweep(now time.Time) {
	if k.idleTTL <= 0 || now.Sub(k.lastSweep) < k.idleTTL {
		return
	}
	k.lastSweep = now

	for key, entry := range k.buckets {
		if now.Sub(entry.lastSeen) >= k.idleTTL && entry.bucket.full(now) {
			delete(k.buckets, key)
		}
	}
}
