package handlers

import "net/http"

// Health reports liveness for load balancers and uptime checks.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Root identifies the service at the bare path.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "converse", "status": "ok"})
}
