package main

import (
	"encoding/json"
	"net/http"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/metrics"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/tracing"
)

// handleMetrics dumps the metrics registry as JSON.
func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allMetrics := metrics.GetAllMetrics()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(allMetrics); err != nil {
			s.logger.WithError(err).WithField(
				"request_id", tracing.GetRequestID(r.Context()),
			).Error("Failed to encode metrics response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
