package handler

import (
	"net/http"
)

type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Health handles GET /api and GET /api/ as a liveness check.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Message: "Video Splitter Pro API",
		Status:  "ok",
	})
}
