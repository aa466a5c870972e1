package repo

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/rogerio-castellano/inventory-flow/internal/repo"

var (
	storeOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_store_operations_total",
			Help: "Total number of product store operations",
		},
		[]string{"operation", "result"},
	)

	storeOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_store_operation_duration_seconds",
			Help:    "Product store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(storeOperationsTotal)
	prometheus.MustRegister(storeOperationDuration)
}

// InstrumentedProductRepository records a span and metrics for every call to the wrapped repository.
type InstrumentedProductRepository struct {
	next   ProductRepository
	tracer trace.Tracer
}

func NewInstrumentedProductRepository(next ProductRepository) *InstrumentedProductRepository {
	return &InstrumentedProductRepository{next: next, tracer: otel.Tracer(tracerName)}
}

func (r *InstrumentedProductRepository) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "ProductRepository."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		result := resultLabel(err)
		storeOperationsTotal.WithLabelValues(op, result).Inc()
		storeOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		span.SetAttributes(attribute.String("store.result", result))
		if result == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func resultLabel(err error) string {
	var verr *models.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProductNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}

func (r *InstrumentedProductRepository) Create(ctx context.Context, fields models.ProductFields) (models.Product, error) {
	ctx, done := r.observe(ctx, "Create")
	p, err := r.next.Create(ctx, fields)
	done(err)
	return p, err
}

func (r *InstrumentedProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	ctx, done := r.observe(ctx, "ListAll")
	products, err := r.next.ListAll(ctx)
	done(err)
	return products, err
}

func (r *InstrumentedProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	ctx, done := r.observe(ctx, "GetByID", attribute.String("product.id", id))
	p, err := r.next.GetByID(ctx, id)
	done(err)
	return p, err
}

func (r *InstrumentedProductRepository) UpdateByID(ctx context.Context, id string, fields models.ProductFields) (models.Product, error) {
	ctx, done := r.observe(ctx, "UpdateByID", attribute.String("product.id", id))
	p, err := r.next.UpdateByID(ctx, id, fields)
	done(err)
	return p, err
}

func (r *InstrumentedProductRepository) DeleteByID(ctx context.Context, id string) (models.Product, error) {
	ctx, done := r.observe(ctx, "DeleteByID", attribute.String("product.id", id))
	p, err := r.next.DeleteByID(ctx, id)
	done(err)
	return p, err
}
