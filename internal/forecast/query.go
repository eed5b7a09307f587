package forecast

import (
	"context"
	"fmt"

	"salecast/internal/core"
	"salecast/internal/log"
	"salecast/internal/storage"
)

const (
	// DefaultLimit is the page size used when the caller does not ask for
	// one; MaxLimit is the hard ceiling a caller can never exceed.
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ForecastReader is the slice of the repository the read path needs.
type ForecastReader interface {
	CountForecasts(ctx context.Context, filter storage.ForecastFilter) (int64, error)
	ListForecasts(ctx context.Context, filter storage.ForecastFilter, skip, limit int) ([]core.Forecast, error)
}

// Params are the raw, untrusted inputs of a forecast listing request.
// Empty filter strings impose no constraint.
type Params struct {
	EntityID string
	Category string
	Date     string
	Skip     int
	Limit    int
}

// Page is one page of forecasts plus the total number of records matching
// the filters, counted independently of pagination.
type Page struct {
	Forecasts  []core.ForecastView `json:"forecasts"`
	TotalCount int64               `json:"total_count"`
	Skip       int                 `json:"skip"`
	Limit      int                 `json:"limit"`
}

// QueryService builds filtered, sorted, paginated reads over persisted
// forecasts. It never writes.
type QueryService struct {
	reader ForecastReader
	logger *log.Logger
}

func NewQueryService(reader ForecastReader, logger *log.Logger) *QueryService {
	return &QueryService{
		reader: reader,
		logger: logger.WithComponent(log.ComponentQuery),
	}
}

// List returns the page of forecasts matching p. Out-of-range pagination
// values are normalized rather than rejected, and a malformed date filter
// is dropped with a warning so the request still succeeds.
func (s *QueryService) List(ctx context.Context, p Params) (Page, error) {
	skip, limit := normalize(p.Skip, p.Limit)

	filter := storage.ForecastFilter{
		EntityID: p.EntityID,
		Category: p.Category,
	}
	if p.Date != "" {
		if date, err := core.ParseDate(p.Date); err == nil {
			filter.Date = &date
		} else {
			s.logger.WarnContext(ctx, "Ignoring malformed date filter", "date", p.Date)
		}
	}

	total, err := s.reader.CountForecasts(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("count forecasts: %w", err)
	}

	forecasts, err := s.reader.ListForecasts(ctx, filter, skip, limit)
	if err != nil {
		return Page{}, fmt.Errorf("list forecasts: %w", err)
	}

	views := make([]core.ForecastView, 0, len(forecasts))
	for _, f := range forecasts {
		views = append(views, f.View())
	}

	return Page{
		Forecasts:  views,
		TotalCount: total,
		Skip:       skip,
		Limit:      limit,
	}, nil
}

func normalize(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return skip, limit
}
