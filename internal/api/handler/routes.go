package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the /api sub-router with the full route table.
// Every endpoint is registered here explicitly; nothing is matched by
// prefix convention.
func Routes(video *VideoHandler, job *JobHandler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	r.Get("/", Health)
	r.Post("/upload-video", video.Upload)
	r.Get("/video-info/{job_id}", video.Info)
	r.Get("/video-stream/{job_id}", video.Stream)
	r.Post("/split-video/{job_id}", job.Split)
	r.Get("/job-status/{job_id}", job.Status)
	r.Get("/download/{job_id}/{filename}", video.Download)

	return r
}

// NotFound is the catch-all for unmatched method+path combinations.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, "Endpoint not found")
}
