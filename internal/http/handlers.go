package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"salecast/internal/forecast"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": "Sales forecast API is running",
		"worker":  "active",
	})
}

// handleListForecasts serves the paginated forecast listing. It always
// answers with the page shape, including an empty forecasts list; there is
// no not-found state for this endpoint.
func (s *Server) handleListForecasts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := forecast.Params{
		EntityID: q.Get("entity_id"),
		Category: q.Get("category"),
		Date:     q.Get("date"),
		Skip:     queryInt(q.Get("skip"), 0),
		Limit:    queryInt(q.Get("limit"), 0),
	}

	page, err := s.query.List(r.Context(), params)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list forecasts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
