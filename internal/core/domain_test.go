package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForecastValidation(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 13, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		entityID  string
		category  string
		hour      int
		predicted int
		date      time.Time
		wantErr   error
	}{
		{name: "valid", entityID: "1", category: "Bucket", hour: 12, predicted: 19, date: date},
		{name: "hour lower bound", entityID: "1", category: "Bucket", hour: 0, predicted: 0, date: date},
		{name: "hour upper bound", entityID: "1", category: "Bucket", hour: 23, predicted: 1, date: date},
		{name: "hour too low", entityID: "1", category: "Bucket", hour: -1, predicted: 1, date: date, wantErr: ErrInvalidHour},
		{name: "hour too high", entityID: "1", category: "Bucket", hour: 24, predicted: 1, date: date, wantErr: ErrInvalidHour},
		{name: "negative quantity", entityID: "1", category: "Bucket", hour: 12, predicted: -1, date: date, wantErr: ErrNegativeQuantity},
		{name: "empty entity", entityID: "", category: "Bucket", hour: 12, predicted: 1, date: date, wantErr: ErrEmptyEntityID},
		{name: "empty category", entityID: "1", category: "", hour: 12, predicted: 1, date: date, wantErr: ErrEmptyCategory},
		{name: "zero date", entityID: "1", category: "Bucket", hour: 12, predicted: 1, wantErr: ErrZeroDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewForecast(tt.entityID, tt.category, tt.hour, tt.predicted, tt.date, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, f.CreatedAt)
		})
	}
}

func TestDayTruncate(t *testing.T) {
	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, midnight, DayTruncate(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, midnight, DayTruncate(time.Date(2026, 8, 30, 23, 59, 59, 999999999, time.UTC)))

	// Non-UTC inputs are normalized to the UTC calendar day.
	tz := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, midnight, DayTruncate(time.Date(2026, 8, 30, 5, 12, 0, 0, tz)))
}

func TestForecastView(t *testing.T) {
	f := Forecast{
		EntityID:          "2",
		Category:          "Wings",
		Hour:              9,
		PredictedQuantity: 42,
		Date:              time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	v := f.View()
	assert.Equal(t, "09:00", v.Hour)
	assert.Equal(t, "2026-01-02", v.Date)
	assert.Equal(t, "2", v.EntityID)
	assert.Equal(t, "Wings", v.Category)
	assert.Equal(t, 42, v.PredictedQuantity)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}
