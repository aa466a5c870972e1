package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"github.com/rogerio-castellano/inventory-flow/internal/redissvc"
	"go.uber.org/zap"
)

// generationKey holds a counter bumped by every write. Cached entries are keyed by the
// generation read before the backing store was queried, so a fill that raced a write lands
// under a generation no reader asks for again.
const generationKey = "products:gen"

func listCacheKey(gen int64) string {
	return fmt.Sprintf("products:all:%d", gen)
}

func productCacheKey(gen int64, id string) string {
	return fmt.Sprintf("product:%d:%s", gen, id)
}

// CachedProductRepository keeps listings and single products in Redis in front of another
// repository. Every write moves the cache to a new generation.
type CachedProductRepository struct {
	next   ProductRepository
	cache  *redissvc.RedisService
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProductRepository(next ProductRepository, cache *redissvc.RedisService, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedProductRepository) Create(ctx context.Context, fields models.ProductFields) (models.Product, error) {
	p, err := r.next.Create(ctx, fields)
	if err != nil {
		return p, err
	}
	r.invalidate(ctx, p.ID)
	return p, nil
}

func (r *CachedProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.ListAll(ctx)
	}

	key := listCacheKey(gen)
	var cached []models.Product
	hit, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	products, err := r.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, products)
	return products, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	gen, ok := r.generation(ctx)
	if !ok {
		return r.next.GetByID(ctx, id)
	}

	key := productCacheKey(gen, id)
	var cached models.Product
	hit, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	p, err := r.next.GetByID(ctx, id)
	if err != nil {
		return p, err
	}
	r.store(ctx, key, p)
	return p, nil
}

func (r *CachedProductRepository) UpdateByID(ctx context.Context, id string, fields models.ProductFields) (models.Product, error) {
	p, err := r.next.UpdateByID(ctx, id, fields)
	if err != nil {
		return p, err
	}
	r.invalidate(ctx, id)
	return p, nil
}

func (r *CachedProductRepository) DeleteByID(ctx context.Context, id string) (models.Product, error) {
	p, err := r.next.DeleteByID(ctx, id)
	if err != nil {
		return p, err
	}
	r.invalidate(ctx, id)
	return p, nil
}

// generation reports false when the counter cannot be read; the caller then skips the cache.
func (r *CachedProductRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.cache.GetInt(ctx, generationKey)
	if err != nil {
		r.logger.Warn("Product cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (r *CachedProductRepository) store(ctx context.Context, key string, v any) {
	if err := r.cache.SetJSON(ctx, key, v, r.ttl); err != nil {
		r.logger.Warn("Product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate bumps the generation after a write and drops the entries of the previous one.
func (r *CachedProductRepository) invalidate(ctx context.Context, id string) {
	gen, err := r.cache.Incr(ctx, generationKey)
	if err != nil {
		r.logger.Warn("Product cache invalidation failed", zap.String("id", id), zap.Error(err))
		return
	}
	keys := []string{listCacheKey(gen - 1), productCacheKey(gen-1, id)}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Product cache cleanup failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
