// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"criaconecta_backend/internal/feature/briefing/domain/entity"
	"criaconecta_backend/internal/feature/briefing/usecase"
)

// CachingBriefingRepository decorates a BriefingRepository with Redis caching
// of the open-briefings listing. It implements the decorator pattern,
// transparently adding caching without modifying the underlying repository.
//
// Only the ListOpen projection is cached: it backs the public home page and is
// the one read-heavy query. Writes (Create, UpdateStatus) invalidate the entry
// so the listing never shows a briefing with a stale status.
type CachingBriefingRepository struct {
	inner     usecase.BriefingRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingBriefingRepositoryがBriefingRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.BriefingRepository = (*CachingBriefingRepository)(nil)

// NewCachingBriefingRepository decorates a BriefingRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "briefings".
// A nil Redis client disables caching entirely (all calls pass through).
func NewCachingBriefingRepository(rdb *redis.Client, ttl time.Duration, inner usecase.BriefingRepository, namespace string) *CachingBriefingRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "briefings"
	}
	return &CachingBriefingRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists a briefing and invalidates the open listing.
func (c *CachingBriefingRepository) Create(ctx context.Context, b *entity.Briefing) error {
	if err := c.inner.Create(ctx, b); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID is never cached: the lifecycle engine must always see the current
// status for its compare-and-set decisions.
func (c *CachingBriefingRepository) FindByID(ctx context.Context, id uint) (*entity.Briefing, error) {
	return c.inner.FindByID(ctx, id)
}

// UpdateStatus applies the compare-and-set on the underlying repository and
// invalidates the open listing on success.
func (c *CachingBriefingRepository) UpdateStatus(ctx context.Context, id uint, from, to entity.Status) error {
	if err := c.inner.UpdateStatus(ctx, id, from, to); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// ListOpen retrieves the open briefings, checking cache first then falling
// back to the database.
func (c *CachingBriefingRepository) ListOpen(ctx context.Context) ([]entity.Briefing, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListOpen(ctx)
	}

	key := c.openKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Briefing
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// ListByOwner is a per-company dashboard query; it is not cached.
func (c *CachingBriefingRepository) ListByOwner(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error) {
	return c.inner.ListByOwner(ctx, companyID, status)
}

// openKey generates the cache key for the open-briefings listing.
func (c *CachingBriefingRepository) openKey() string {
	return c.namespace + ":open"
}

// invalidate drops the open listing entry (best effort).
func (c *CachingBriefingRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.openKey()).Err()
}
