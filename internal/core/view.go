package core

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for forecast dates, both in the list
// response and in the exact-date filter.
const DateFormat = "2006-01-02"

// ForecastView is the presentation shape of a Forecast: the hour bucket is
// rendered as "HH:00" and the date as "YYYY-MM-DD". It exists only on the
// way out; filtering and sorting always happen on the typed Forecast.
type ForecastView struct {
	EntityID          string `json:"entity_id"`
	Category          string `json:"category"`
	Hour              string `json:"hour"`
	Date              string `json:"date"`
	PredictedQuantity int    `json:"predicted_quantity"`
}

// View maps a forecast to its presentation shape.
func (f Forecast) View() ForecastView {
	return ForecastView{
		EntityID:          f.EntityID,
		Category:          f.Category,
		Hour:              fmt.Sprintf("%02d:00", f.Hour),
		Date:              f.Date.UTC().Format(DateFormat),
		PredictedQuantity: f.PredictedQuantity,
	}
}

// ParseDate parses a YYYY-MM-DD string into a day-aligned UTC instant.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}
