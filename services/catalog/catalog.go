package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	offeringRepo "petbnb/database/repository/offering"
	"petbnb/models"

	"github.com/go-redis/redis/v8"
)

// offeringCacheTTL bounds how stale a cached offering may be. Price or capacity
// edits by a caregiver become visible to new checkouts within this window.
const offeringCacheTTL = 5 * time.Minute

// Catalog resolves bookable service offerings for the checkout flow. Lookups
// read through a Redis cache; the cache is best effort and every miss or cache
// error falls back to the repository.
type Catalog struct {
	Repo  offeringRepo.OfferingRepository
	Cache *redis.Client
}

func NewCatalog(repo offeringRepo.OfferingRepository, cache *redis.Client) *Catalog {
	return &Catalog{Repo: repo, Cache: cache}
}

// GetOffering returns the offering with the given ID.
func (c *Catalog) GetOffering(ctx context.Context, serviceID string) (*models.ServiceOffering, error) {
	if cached := c.fromCache(ctx, serviceID); cached != nil {
		return cached, nil
	}

	offering, err := c.Repo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("service offering %s not found: %w", serviceID, err)
	}
	c.toCache(ctx, offering)
	return offering, nil
}

func (c *Catalog) fromCache(ctx context.Context, serviceID string) *models.ServiceOffering {
	if c.Cache == nil {
		return nil
	}
	data, err := c.Cache.Get(ctx, cacheKey(serviceID)).Result()
	if err != nil {
		return nil
	}
	var offering models.ServiceOffering
	if err := json.Unmarshal([]byte(data), &offering); err != nil {
		return nil
	}
	return &offering
}

func (c *Catalog) toCache(ctx context.Context, offering *models.ServiceOffering) {
	if c.Cache == nil {
		return
	}
	data, err := json.Marshal(offering)
	if err != nil {
		return
	}
	c.Cache.Set(ctx, cacheKey(offering.ID), data, offeringCacheTTL)
}

func cacheKey(serviceID string) string {
	return "catalog:offering:" + serviceID
}
