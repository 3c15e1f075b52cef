package offline

import (
	"testing"

	"github.com/shopspring/decimal"
)

func sampleProducts() []CachedProduct {
	return []CachedProduct{
		{ID: "p1", Name: "Unga 2kg", SKU: "UNG-001", RetailPrice: decimal.NewFromFloat(185), Quantity: 40},
		{ID: "p2", Name: "Sukari 1kg", SKU: "SUK-001", RetailPrice: decimal.NewFromFloat(210), Quantity: 12},
	}
}

func TestProductCacheReplaceAndLookup(t *testing.T) {
	cache := NewProductCache(newMemStore(), testLogger())
	cache.Replace(sampleProducts())

	if got := cache.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	p, ok := cache.Get("p2")
	if !ok {
		t.Fatal("Get(p2) not found")
	}
	if p.Name != "Sukari 1kg" {
		t.Errorf("Get(p2).Name = %q", p.Name)
	}

	if _, ok := cache.Get("p9"); ok {
		t.Error("Get(p9) found a product that does not exist")
	}
}

func TestProductCachePersistsAcrossRestart(t *testing.T) {
	store := newMemStore()
	NewProductCache(store, testLogger()).Replace(sampleProducts())

	reloaded := NewProductCache(store, testLogger())
	if got := reloaded.Len(); got != 2 {
		t.Fatalf("reloaded Len() = %d, want 2", got)
	}
	if _, ok := reloaded.Get("p1"); !ok {
		t.Error("reloaded cache lost p1")
	}
}

func TestProductCacheCorruptSnapshotFallsBackToEmpty(t *testing.T) {
	store := newMemStore()
	store.data[KeyProducts] = []byte("][")

	cache := NewProductCache(store, testLogger())
	if got := cache.Len(); got != 0 {
		t.Errorf("corrupt snapshot should yield empty cache, got %d", got)
	}

	cache.Replace(sampleProducts())
	if got := cache.Len(); got != 2 {
		t.Errorf("cache unusable after corrupt load, Len() = %d", got)
	}
}

func TestProductCacheAllReturnsCopy(t *testing.T) {
	cache := NewProductCache(newMemStore(), testLogger())
	cache.Replace(sampleProducts())

	all := cache.All()
	all[0].Name = "mutated"

	p, _ := cache.Get("p1")
	if p.Name == "mutated" {
		t.Error("All() exposed internal storage")
	}
}
