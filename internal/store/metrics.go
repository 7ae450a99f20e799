package store

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce    sync.Once
	upsertCounter  metric.Int64Counter
	failureCounter metric.Int64Counter
	fetchCounter   metric.Int64Counter
)

// InitStoreMetrics registers the store counters on the given meter.
func InitStoreMetrics(meter metric.Meter) {
	metricsOnce.Do(func() {
		upsertCounter, _ = meter.Int64Counter("store_upserts_total",
			metric.WithDescription("Number of profile upserts"))
		failureCounter, _ = meter.Int64Counter("store_failures_total",
			metric.WithDescription("Number of failed store operations"))
		fetchCounter, _ = meter.Int64Counter("store_fetch_all_total",
			metric.WithDescription("Number of full dataset reads"))
	})
}

func countUpsert(ctx context.Context) {
	if upsertCounter != nil {
		upsertCounter.Add(ctx, 1)
	}
}

func countFailure(ctx context.Context) {
	if failureCounter != nil {
		failureCounter.Add(ctx, 1)
	}
}

func countFetch(ctx context.Context) {
	if fetchCounter != nil {
		fetchCounter.Add(ctx, 1)
	}
}
