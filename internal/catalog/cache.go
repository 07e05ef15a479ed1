package catalog

import (
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
)

// Cache is the snapshot of the product list most recently fetched from the
// backend. It is replaced wholesale on every list and only shrinks locally
// after a confirmed delete; updates never touch it.
type Cache struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Replace(products []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = slices.Clone(products)
}

func (c *Cache) All() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.products)
}

func (c *Cache) Get(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := slices.IndexFunc(c.products, func(p models.Product) bool { return p.ID == id })
	if idx < 0 {
		return models.Product{}, false
	}

	return c.products[idx], true
}

// Remove drops the product with the given id and reports whether it was cached.
func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.products)
	c.products = slices.DeleteFunc(c.products, func(p models.Product) bool { return p.ID == id })

	return len(c.products) != before
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.products)
}

func (c *Cache) Filter(searchTerm, category string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Filter(c.products, searchTerm, category)
}
