package memory

import (
	"time"

	"library-management-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const categoryListKey = "categories:all"

// CategoryCache holds the category list between writes.
type CategoryCache struct {
	cache *cache.Cache
}

func NewCategoryCache(ttl time.Duration) *CategoryCache {
	return &CategoryCache{cache: cache.New(ttl, 2*ttl)}
}

func (c *CategoryCache) Get() ([]*entity.Category, bool) {
	if x, found := c.cache.Get(categoryListKey); found {
		return x.([]*entity.Category), true
	}
	return nil, false
}

func (c *CategoryCache) Set(categories []*entity.Category) {
	c.cache.Set(categoryListKey, categories, cache.DefaultExpiration)
}

func (c *CategoryCache) Invalidate() {
	c.cache.Delete(categoryListKey)
}
