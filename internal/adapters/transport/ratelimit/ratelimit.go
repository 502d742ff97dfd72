package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

// PerKey хранит token-bucket на каждый ключ (обычно IP) в LRU-кэше.
// Неактивные дольше ttl ключи сбрасываются.
type PerKey struct {
	mu       sync.Mutex
	visitors *lru.Cache[string, *visitor]
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func New(limit, burst, cacheSize int, ttl time.Duration) *PerKey {
	visitors, err := lru.New[string, *visitor](cacheSize)
	if err != nil {
		// размер <= 0, берём разумный минимум
		visitors, _ = lru.New[string, *visitor](1024)
	}
	return &PerKey{
		visitors: visitors,
		limit:    rate.Limit(limit),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (p *PerKey) Allow(key string) bool {
	now := p.now()

	p.mu.Lock()
	v, ok := p.visitors.Get(key)
	if !ok || now.Sub(v.last) > p.ttl {
		v = &visitor{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.visitors.Add(key, v)
	}
	v.last = now
	p.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Len: число отслеживаемых ключей.
func (p *PerKey) Len() int { return p.visitors.Len() }

// Cleanup удаляет ключи, не появлявшиеся дольше ttl.
func (p *PerKey) Cleanup() {
	now := p.now()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, key := range p.visitors.Keys() {
		if v, ok := p.visitors.Peek(key); ok && now.Sub(v.last) > p.ttl {
			p.visitors.Remove(key)
		}
	}
}

// Run периодически чистит кэш до отмены ctx.
func (p *PerKey) Run(ctx context.Context) {
	ticker := time.NewTicker(p.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cleanup()
		}
	}
}
