package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
	"github.com/splitgate/vidsplit/internal/usecase"
)

// Request/Response types

type SplitVideoRequest struct {
	Method           string    `json:"method"`
	TimePoints       []float64 `json:"time_points"`
	IntervalDuration float64   `json:"interval_duration"`
	PreserveQuality  *bool     `json:"preserve_quality"`
	OutputFormat     string    `json:"output_format"`
}

type SplitVideoResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Method  string `json:"method"`
	Note    string `json:"note"`
}

type JobStatusResponse struct {
	ID       string              `json:"id"`
	Status   string              `json:"status"`
	Progress int                 `json:"progress"`
	Splits   []model.SplitResult `json:"splits"`
	Error    string              `json:"error,omitempty"`
}

// JobHandler handles split-job HTTP requests.
type JobHandler struct {
	svc usecase.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc usecase.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// Split handles POST /api/split-video/{job_id}
// The split itself runs on a worker; the handler only validates and
// enqueues, then acknowledges with 202.
func (h *JobHandler) Split(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		Error(w, http.StatusBadRequest, "Missing required parameter: job_id")
		return
	}

	var req SplitVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	cfg := model.SplitConfig{
		Method:           model.SplitMethod(req.Method),
		TimePoints:       req.TimePoints,
		IntervalDuration: req.IntervalDuration,
		PreserveQuality:  true,
		OutputFormat:     req.OutputFormat,
	}
	if req.PreserveQuality != nil {
		cfg.PreserveQuality = *req.PreserveQuality
	}

	job, err := h.svc.RequestSplit(r.Context(), jobID, cfg)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusAccepted, SplitVideoResponse{
		Message: "Split request accepted",
		JobID:   job.ID,
		Status:  job.Status.String(),
		Method:  req.Method,
		Note:    "Poll /api/job-status/{job_id} for progress",
	})
}

// Status handles GET /api/job-status/{job_id}
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		Error(w, http.StatusBadRequest, "Missing required parameter: job_id")
		return
	}

	job, err := h.svc.GetJobStatus(r.Context(), jobID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	splits := job.Splits
	if splits == nil {
		splits = []model.SplitResult{}
	}

	JSON(w, http.StatusOK, JobStatusResponse{
		ID:       job.ID,
		Status:   job.Status.String(),
		Progress: job.Progress,
		Splits:   splits,
		Error:    job.Error,
	})
}

func (h *JobHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		Error(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, model.ErrNoTimePoints):
		Error(w, http.StatusBadRequest, "No time points specified for time-based splitting")
	case errors.Is(err, model.ErrInvalidInterval):
		Error(w, http.StatusBadRequest, "Invalid interval duration specified")
	case errors.Is(err, model.ErrInvalidSplitMethod):
		Error(w, http.StatusBadRequest, "Invalid split method specified")
	case errors.Is(err, usecase.ErrJobAlreadyFinished):
		Error(w, http.StatusConflict, "Job already finished")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
