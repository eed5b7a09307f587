package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salecast/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSalesAveragesSince(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := day(2026, 8, 20)
	quantities := []float64{10, 20, 30, 10, 20, 10, 20, 30, 10, 20}

	var sales []core.Sale
	for i, q := range quantities {
		sales = append(sales, core.Sale{
			EntityID:   "1",
			Category:   "Bucket",
			Hour:       12,
			Quantity:   q,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	// A second group and a record outside the window.
	sales = append(sales,
		core.Sale{EntityID: "2", Category: "Wings", Hour: 9, Quantity: 7, OccurredAt: base},
		core.Sale{EntityID: "1", Category: "Bucket", Hour: 12, Quantity: 1000, OccurredAt: base.AddDate(0, 0, -10)},
	)
	require.NoError(t, repo.InsertSales(ctx, sales))

	averages, err := repo.SalesAveragesSince(ctx, base)
	require.NoError(t, err)
	require.Len(t, averages, 2)

	byKey := map[string]core.SalesAverage{}
	for _, a := range averages {
		byKey[a.EntityID+"/"+a.Category] = a
	}
	assert.InDelta(t, 18.0, byKey["1/Bucket"].AverageQuantity, 1e-9)
	assert.Equal(t, 12, byKey["1/Bucket"].Hour)
	assert.InDelta(t, 7.0, byKey["2/Wings"].AverageQuantity, 1e-9)
}

func TestSalesAveragesSinceEmptyWindow(t *testing.T) {
	repo := newTestRepo(t)

	averages, err := repo.SalesAveragesSince(context.Background(), day(2026, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, averages)
}

func TestReplaceForecasts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	target := day(2026, 8, 31)
	other := day(2026, 9, 1)
	created := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)

	first := []core.Forecast{
		{EntityID: "1", Category: "Bucket", Hour: 12, PredictedQuantity: 19, Date: target, CreatedAt: created},
		{EntityID: "2", Category: "Wings", Hour: 9, PredictedQuantity: 7, Date: target, CreatedAt: created},
	}
	n, err := repo.ReplaceForecasts(ctx, target, first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Forecasts for a different date survive a replace of the target date.
	_, err = repo.ReplaceForecasts(ctx, other, []core.Forecast{
		{EntityID: "1", Category: "Bucket", Hour: 8, PredictedQuantity: 3, Date: other, CreatedAt: created},
	})
	require.NoError(t, err)

	second := []core.Forecast{
		{EntityID: "1", Category: "Bucket", Hour: 12, PredictedQuantity: 21, Date: target, CreatedAt: created.Add(time.Hour)},
	}
	n, err = repo.ReplaceForecasts(ctx, target, second)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.ListForecasts(ctx, ForecastFilter{Date: &target}, 0, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 21, got[0].PredictedQuantity)

	count, err := repo.CountForecasts(ctx, ForecastFilter{Date: &other})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func seedForecastPage(t *testing.T, repo *SQLiteRepository) time.Time {
	t.Helper()

	target := day(2026, 8, 31)
	created := day(2026, 8, 30)
	var batch []core.Forecast
	for hour := 0; hour < 6; hour++ {
		for _, entity := range []string{"1", "2"} {
			for _, category := range []string{"Bucket", "Wings"} {
				batch = append(batch, core.Forecast{
					EntityID:          entity,
					Category:          category,
					Hour:              hour,
					PredictedQuantity: hour + 1,
					Date:              target,
					CreatedAt:         created,
				})
			}
		}
	}
	_, err := repo.ReplaceForecasts(context.Background(), target, batch)
	require.NoError(t, err)
	return target
}

func TestListForecastsOrderAndFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	target := seedForecastPage(t, repo)

	all, err := repo.ListForecasts(ctx, ForecastFilter{}, 0, 1000)
	require.NoError(t, err)
	require.Len(t, all, 24)

	// Fixed total order: date, hour, entity, category.
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		prevKey := [4]any{prev.Date.Unix(), prev.Hour, prev.EntityID, prev.Category}
		curKey := [4]any{cur.Date.Unix(), cur.Hour, cur.EntityID, cur.Category}
		assert.NotEqual(t, prevKey, curKey)
		if prev.Hour == cur.Hour && prev.EntityID == cur.EntityID {
			assert.LessOrEqual(t, prev.Category, cur.Category)
		}
		assert.LessOrEqual(t, prev.Hour, cur.Hour)
	}

	filtered, err := repo.ListForecasts(ctx, ForecastFilter{EntityID: "1", Category: "Wings", Date: &target}, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, filtered, 6)
	for _, f := range filtered {
		assert.Equal(t, "1", f.EntityID)
		assert.Equal(t, "Wings", f.Category)
	}

	count, err := repo.CountForecasts(ctx, ForecastFilter{EntityID: "1", Category: "Wings", Date: &target})
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestListForecastsPaginationIsStable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedForecastPage(t, repo)

	pageA, err := repo.ListForecasts(ctx, ForecastFilter{}, 0, 10)
	require.NoError(t, err)
	pageB, err := repo.ListForecasts(ctx, ForecastFilter{}, 10, 10)
	require.NoError(t, err)
	combined, err := repo.ListForecasts(ctx, ForecastFilter{}, 0, 20)
	require.NoError(t, err)

	assert.Equal(t, combined, append(pageA, pageB...))
	assert.Len(t, pageA, 10)

	// Count is independent of pagination.
	count, err := repo.CountForecasts(ctx, ForecastFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(24), count)
}
