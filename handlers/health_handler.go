package handlers

import (
	"net/http"
	"time"

	"github.com/itassets/domain-api/utils"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   "domain registry API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
