package api

import "net/http"

// handleHealth handles GET /api/health. It never touches the store.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "Portfolio API is running"})
}
