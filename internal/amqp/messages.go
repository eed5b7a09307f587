package amqp

import (
	"encoding/json"
	"time"
)

// ForecastBatchMessage announces that a fresh batch of forecasts has been
// persisted for a target date. Consumers re-read the forecasts from the
// store; the message carries only the batch identity.
type ForecastBatchMessage struct {
	TargetDate  string    `json:"target_date"` // YYYY-MM-DD
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (m *ForecastBatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ForecastBatchMessageFromJSON(data []byte) (*ForecastBatchMessage, error) {
	var msg ForecastBatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
