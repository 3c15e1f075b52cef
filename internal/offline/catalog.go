package offline

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// ProductCache keeps a local mirror of the catalog so sales can be built
// without connectivity. Like the queue it persists full snapshots and
// falls back to empty on corruption.
type ProductCache struct {
	mu       sync.RWMutex
	store    Store
	log      *logrus.Logger
	products []CachedProduct
	byID     map[string]int
}

// NewProductCache loads any persisted snapshot and returns the cache.
func NewProductCache(store Store, log *logrus.Logger) *ProductCache {
	c := &ProductCache{store: store, log: log, byID: map[string]int{}}
	c.load()
	return c
}

func (c *ProductCache) load() {
	data, err := c.store.Load(KeyProducts)
	if err != nil {
		c.log.WithError(err).Warn("failed to load product cache, starting empty")
		return
	}
	if len(data) == 0 {
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.WithError(err).Warn("corrupt product cache snapshot, starting empty")
		return
	}

	var products []CachedProduct
	if err := json.Unmarshal(env.Records, &products); err != nil {
		c.log.WithError(err).Warn("corrupt product cache records, starting empty")
		return
	}
	c.products = products
	c.reindex()
}

func (c *ProductCache) reindex() {
	c.byID = make(map[string]int, len(c.products))
	for i := range c.products {
		c.byID[c.products[i].ID] = i
	}
}

// Replace swaps the full cache contents and persists the new snapshot.
func (c *ProductCache) Replace(products []CachedProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = append([]CachedProduct(nil), products...)
	c.reindex()
	c.persist()
}

// persist writes the full snapshot. Callers must hold c.mu.
func (c *ProductCache) persist() {
	records, err := json.Marshal(c.products)
	if err != nil {
		c.log.WithError(err).Error("failed to serialize product cache")
		return
	}
	data, err := json.Marshal(envelope{Version: SnapshotVersion, Records: records})
	if err != nil {
		c.log.WithError(err).Error("failed to serialize snapshot envelope")
		return
	}
	if err := c.store.Save(KeyProducts, data); err != nil {
		c.log.WithError(err).Error("failed to persist product cache")
	}
}

// All returns a copy of the cached catalog.
func (c *ProductCache) All() []CachedProduct {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CachedProduct(nil), c.products...)
}

// Get looks a product up by id.
func (c *ProductCache) Get(id string) (CachedProduct, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.byID[id]; ok {
		return c.products[i], true
	}
	return CachedProduct{}, false
}

// Len reports the number of cached products.
func (c *ProductCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
