package server

import (
	"encoding/json"
	"net/http"
)

// handleHealthz reports liveness plus quota store reachability.
func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok", "store": "ok"}

	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("healthz.store_unreachable", "error", err)
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["store"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
