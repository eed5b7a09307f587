package forecast

import (
	"context"
	"fmt"
	"time"

	"salecast/internal/core"
	"salecast/internal/log"
)

// Store is the slice of the repository the generation pipeline needs.
type Store interface {
	SalesAveragesSince(ctx context.Context, since time.Time) ([]core.SalesAverage, error)
	ReplaceForecasts(ctx context.Context, date time.Time, forecasts []core.Forecast) (int, error)
}

// BatchPublisher announces a completed forecast batch to interested
// consumers. Implementations must be safe to skip: a nil publisher simply
// disables announcements.
type BatchPublisher interface {
	PublishForecastBatch(ctx context.Context, targetDate time.Time, count int) error
}

// Generator runs one full forecast generation cycle: compute the window,
// fetch grouped averages, round them into forecast records and replace the
// target date's batch. One call is one attempt; retries belong to the
// Scheduler.
type Generator struct {
	store        Store
	publisher    BatchPublisher
	lookbackDays int
	now          func() time.Time
	logger       *log.Logger
}

func NewGenerator(store Store, publisher BatchPublisher, lookbackDays int, logger *log.Logger) *Generator {
	return &Generator{
		store:        store,
		publisher:    publisher,
		lookbackDays: lookbackDays,
		now:          time.Now,
		logger:       logger.WithComponent(log.ComponentGenerator),
	}
}

// Run executes one generation cycle and returns the number of forecasts
// written. An empty aggregation window is not an error: the cycle becomes
// a no-op and any previously persisted forecasts for the target date stay
// untouched.
func (g *Generator) Run(ctx context.Context) (int, error) {
	window := ComputeWindow(g.now(), g.lookbackDays)

	g.logger.InfoContext(ctx, "Starting forecast generation",
		"target_date", window.TargetDate.Format(core.DateFormat),
		"history_start", window.HistoryStart.Format(core.DateFormat),
		"lookback_days", g.lookbackDays)

	averages, err := g.store.SalesAveragesSince(ctx, window.HistoryStart)
	if err != nil {
		return 0, fmt.Errorf("fetch sales averages: %w", err)
	}

	if len(averages) == 0 {
		g.logger.WarnContext(ctx, "No historical sales in lookback window, skipping forecast generation")
		return 0, nil
	}

	forecasts := make([]core.Forecast, 0, len(averages))
	createdAt := g.now()
	for _, a := range averages {
		f, err := core.NewForecast(a.EntityID, a.Category, a.Hour,
			core.RoundQuantity(a.AverageQuantity), window.TargetDate, createdAt)
		if err != nil {
			// The aggregation's own domain constraints should make this
			// unreachable; failing the cycle beats silently dropping rows.
			return 0, fmt.Errorf("build forecast for %s/%s hour %d: %w", a.EntityID, a.Category, a.Hour, err)
		}
		forecasts = append(forecasts, f)
	}

	count, err := g.store.ReplaceForecasts(ctx, window.TargetDate, forecasts)
	if err != nil {
		return 0, fmt.Errorf("replace forecasts: %w", err)
	}

	g.logger.InfoContext(ctx, "Forecast batch saved",
		"target_date", window.TargetDate.Format(core.DateFormat),
		"count", count)

	if g.publisher != nil {
		if err := g.publisher.PublishForecastBatch(ctx, window.TargetDate, count); err != nil {
			// Announcements are best-effort; the batch is already persisted.
			g.logger.WarnContext(ctx, "Failed to publish forecast batch event", "error", err)
		}
	}

	return count, nil
}
