package catalog

import "time"

// CategoriesCache fronts the category list; writes invalidate it.
type CategoriesCache interface {
	Get() ([]Category, bool)
	Set(categories []Category, ttl time.Duration)
	Invalidate()
}

type noopCategoriesCache struct{}

func (noopCategoriesCache) Get() ([]Category, bool)       { return nil, false }
func (noopCategoriesCache) Set([]Category, time.Duration) {}
func (noopCategoriesCache) Invalidate()                   {}

// NoopCategoriesCache is used when neither Redis nor the in-memory cache
// is wired.
func NoopCategoriesCache() CategoriesCache {
	return noopCategoriesCache{}
}
