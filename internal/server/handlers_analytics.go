package server

import (
	"net/http"
)

// handleAnalyticsSummary returns the aggregated job search statistics for the
// authenticated user.
func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	stats, err := s.analytics.UserStats(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute analytics: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}
