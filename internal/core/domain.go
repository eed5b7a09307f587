package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinHour and MaxHour bound the hour-of-day bucket carried by sales
	// and forecasts.
	MinHour = 0
	MaxHour = 23
)

type (
	// Sale is one historical sale event. Owned by the ingest side of the
	// store; this system only ever reads it.
	Sale struct {
		EntityID   string
		Category   string
		Hour       int
		Quantity   float64
		OccurredAt time.Time
	}

	// SalesAverage is one grouped aggregation row: the mean quantity sold
	// for an (entity, category, hour) key over the lookback window.
	SalesAverage struct {
		EntityID        string
		Category        string
		Hour            int
		AverageQuantity float64
	}

	// Forecast is the predicted demand for one (entity, category, hour)
	// key on a single target day. The set of forecasts for a given Date is
	// replaced wholesale on each regeneration, so (EntityID, Category,
	// Hour, Date) is unique by construction rather than by constraint.
	Forecast struct {
		ID                int64
		EntityID          string
		Category          string
		Hour              int
		PredictedQuantity int
		Date              time.Time
		CreatedAt         time.Time
	}
)

var (
	ErrEmptyEntityID    = errors.New("empty entity id")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidHour      = fmt.Errorf("hour out of range [%d, %d]", MinHour, MaxHour)
	ErrNegativeQuantity = errors.New("negative predicted quantity")
	ErrZeroDate         = errors.New("forecast date cannot be zero")
)

// NewForecast builds a validated forecast record. createdAt is set once here
// and never updated afterwards.
func NewForecast(entityID, category string, hour, predicted int, date, createdAt time.Time) (Forecast, error) {
	f := Forecast{
		EntityID:          entityID,
		Category:          category,
		Hour:              hour,
		PredictedQuantity: predicted,
		Date:              date,
		CreatedAt:         createdAt,
	}
	if err := f.Validate(); err != nil {
		return Forecast{}, err
	}
	return f, nil
}

func (f Forecast) Validate() error {
	if f.EntityID == "" {
		return ErrEmptyEntityID
	}
	if f.Category == "" {
		return ErrEmptyCategory
	}
	if f.Hour < MinHour || f.Hour > MaxHour {
		return ErrInvalidHour
	}
	if f.PredictedQuantity < 0 {
		return ErrNegativeQuantity
	}
	if f.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// DayTruncate drops the sub-day component of t in UTC. All forecast dates
// and window boundaries are day-aligned through this single helper so that
// retries within the same day land on identical instants.
func DayTruncate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
