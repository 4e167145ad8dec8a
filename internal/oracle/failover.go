package oracle

import (
	"context"
	"sync"
	"time"
)

// CachingSource оборачивает источник цен кешем последнего удачного
// значения. Если биржа недоступна, недавняя цена отдается из кеша,
// чтобы кратковременный сбой не ронял каждую команду.
type CachingSource struct {
	source PriceSource
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cachedPrice
}

type cachedPrice struct {
	price     float64
	timestamp time.Time
}

// NewCachingSource создает кеширующую обертку. ttl ограничивает
// возраст цены, пригодной для выдачи при сбое источника.
func NewCachingSource(source PriceSource, ttl time.Duration) *CachingSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingSource{
		source: source,
		ttl:    ttl,
		cache:  make(map[string]cachedPrice),
	}
}

// LastPrice получает цену из источника, при сбое — из свежего кеша
func (c *CachingSource) LastPrice(ctx context.Context, symbol string) (float64, error) {
	price, err := c.source.LastPrice(ctx, symbol)
	if err == nil {
		c.mu.Lock()
		c.cache[symbol] = cachedPrice{price: price, timestamp: time.Now()}
		c.mu.Unlock()
		return price, nil
	}

	c.mu.Lock()
	cached, ok := c.cache[symbol]
	c.mu.Unlock()

	if ok && time.Since(cached.timestamp) < c.ttl {
		return cached.price, nil
	}

	return 0, err
}
