package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/pkg/logger"
)

// ProviderCatalog is the in-memory provider list the discovery pipeline runs
// over. It is replaced wholesale by Refresh.
type ProviderCatalog struct {
	providers   []model.Provider
	index       map[string]int
	loaded      bool
	refreshedAt time.Time
	mu          sync.RWMutex
}

func NewProviderCatalog() *ProviderCatalog {
	return &ProviderCatalog{index: make(map[string]int)}
}

// Loaded reports whether the catalog has been filled at least once. An empty
// but loaded catalog means "no providers", not "still loading".
func (c *ProviderCatalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Replace swaps in a new provider list. Later duplicates of an ID are dropped.
func (c *ProviderCatalog) Replace(providers []model.Provider) {
	next := make([]model.Provider, 0, len(providers))
	index := make(map[string]int, len(providers))
	for _, p := range providers {
		if _, dup := index[p.ID]; dup {
			slog.Warn("duplicate provider id dropped", "provider_id", p.ID)
			continue
		}
		index[p.ID] = len(next)
		next = append(next, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = next
	c.index = index
	c.loaded = true
	c.refreshedAt = time.Now()
}

// All returns a copy of every provider in catalog order
func (c *ProviderCatalog) All() []model.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.providers)
}

func (c *ProviderCatalog) Get(id string) (model.Provider, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return model.Provider{}, false
	}
	return c.providers[i], true
}

// Count returns the number of providers in the catalog
func (c *ProviderCatalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.providers)
}

func (c *ProviderCatalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// Refresh loads src and replaces the catalog. On error the previous contents
// stay in place.
func (c *ProviderCatalog) Refresh(ctx context.Context, src CatalogSource) error {
	providers, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh catalog from %s: %w", src.Name(), err)
	}
	c.Replace(providers)
	logger.Info(ctx, "provider catalog refreshed", "source", src.Name(), "providers", len(providers))
	return nil
}

// Watch refreshes from src every interval until ctx is done
func (c *ProviderCatalog) Watch(ctx context.Context, src CatalogSource, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx, src); err != nil {
				logger.Error(ctx, "catalog refresh failed", "error", err)
			}
		}
	}
}
