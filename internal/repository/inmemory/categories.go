package inmemory

import (
	"sync"
	"time"

	"github.com/Arzion032/binhi-fms-backend/internal/domain/catalog"
)

// CategoriesCache is a TTL cache for the category list. The list is tiny
// and changes rarely, so a single guarded slice is enough.
type CategoriesCache struct {
	mu        sync.RWMutex
	items     []catalog.Category
	expiresAt time.Time
}

func NewCategoriesCache() *CategoriesCache {
	return &CategoriesCache{}
}

func (c *CategoriesCache) Get() ([]catalog.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.items, true
}

func (c *CategoriesCache) Set(categories []catalog.Category, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = categories
	c.expiresAt = time.Now().Add(ttl)
}

func (c *CategoriesCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
