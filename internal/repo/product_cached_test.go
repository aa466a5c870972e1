package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"github.com/rogerio-castellano/inventory-flow/internal/redissvc"
	"go.uber.org/zap/zaptest"
)

func getRedisService(t *testing.T) *redissvc.RedisService {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return redissvc.NewRedisService(client)
}

// countingRepository counts ListAll calls that reach the backing store.
type countingRepository struct {
	*InMemoryProductRepository
	lists int
}

func (c *countingRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	c.lists++
	return c.InMemoryProductRepository.ListAll(ctx)
}

func TestCachedRepository_ListServedFromCacheUntilWrite(t *testing.T) {
	svc := getRedisService(t)
	ctx := context.Background()
	t.Cleanup(func() { svc.Delete(ctx, generationKey) })

	backing := &countingRepository{InMemoryProductRepository: NewInMemoryProductRepository()}
	r := NewCachedProductRepository(backing, svc, time.Minute, zaptest.NewLogger(t))

	if _, err := r.Create(ctx, validFields("A")); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, _ := r.ListAll(ctx)
	second, _ := r.ListAll(ctx)
	if backing.lists != 1 {
		t.Errorf("expected 1 backing list call, got %d", backing.lists)
	}
	if len(first) != 1 || len(second) != 1 || second[0].ID != first[0].ID {
		t.Errorf("expected cached list to match, got %+v and %+v", first, second)
	}

	if _, err := r.UpdateByID(ctx, first[0].ID, models.ProductFields{Quantity: ptr(1)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	third, _ := r.ListAll(ctx)
	if backing.lists != 2 {
		t.Errorf("expected list cache to be invalidated by update, got %d backing calls", backing.lists)
	}
	if third[0].Quantity != 1 {
		t.Errorf("expected fresh quantity 1, got %d", third[0].Quantity)
	}

	if _, err := r.DeleteByID(ctx, first[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	fourth, _ := r.ListAll(ctx)
	if len(fourth) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(fourth))
	}
}

// writeDuringList runs write once, after the backing list was read but before it is returned.
type writeDuringList struct {
	*InMemoryProductRepository
	write func()
}

func (w *writeDuringList) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := w.InMemoryProductRepository.ListAll(ctx)
	if w.write != nil {
		write := w.write
		w.write = nil
		write()
	}
	return products, err
}

func TestCachedRepository_FillRacingWriteIsNotServed(t *testing.T) {
	svc := getRedisService(t)
	ctx := context.Background()
	t.Cleanup(func() { svc.Delete(ctx, generationKey) })

	backing := &writeDuringList{InMemoryProductRepository: NewInMemoryProductRepository()}
	r := NewCachedProductRepository(backing, svc, time.Minute, zaptest.NewLogger(t))
	if _, err := r.Create(ctx, validFields("A")); err != nil {
		t.Fatalf("create: %v", err)
	}

	backing.write = func() {
		if _, err := r.Create(ctx, validFields("B")); err != nil {
			t.Errorf("create during list: %v", err)
		}
	}
	stale, _ := r.ListAll(ctx)
	if len(stale) != 1 {
		t.Fatalf("expected the list read before the write, got %d products", len(stale))
	}

	fresh, _ := r.ListAll(ctx)
	if len(fresh) != 2 || fresh[0].Name != "B" {
		t.Errorf("expected the write to be visible after the racing fill, got %+v", fresh)
	}
}

func TestCachedRepository_UnreachableRedisFallsThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx := context.Background()
	r := NewCachedProductRepository(NewInMemoryProductRepository(), redissvc.NewRedisService(client), time.Minute, zaptest.NewLogger(t))

	created, err := r.Create(ctx, validFields("A"))
	if err != nil {
		t.Fatalf("expected create to succeed without cache, got %v", err)
	}
	products, err := r.ListAll(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("expected one product, got %v, %v", products, err)
	}
	got, err := r.GetByID(ctx, created.ID)
	if err != nil || got.ID != created.ID {
		t.Errorf("expected product %s, got %+v, %v", created.ID, got, err)
	}
}
