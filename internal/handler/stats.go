package handler

import "net/http"

// GetFlightStats handles GET /flights/stats.
// The statistics structure is serialized directly from the domain type — it
// is already shaped for the wire and has no fields to hide.
func (s *Server) GetFlightStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetStats(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
