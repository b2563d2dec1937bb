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

type UploadVideoRequest struct {
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
	FileSize *int64 `json:"fileSize"`
}

type UploadVideoResponse struct {
	JobID       string                    `json:"job_id"`
	UploadURL   string                    `json:"upload_url"`
	UploadPost  *repository.PresignedPost `json:"upload_post"`
	Bucket      string                    `json:"bucket"`
	Key         string                    `json:"key"`
	ContentType string                    `json:"content_type"`
}

type VideoInfoResponse struct {
	JobID    string              `json:"job_id"`
	VideoKey string              `json:"video_key"`
	Metadata model.MediaMetadata `json:"metadata"`
}

type VideoStreamResponse struct {
	StreamURL string `json:"stream_url"`
}

// VideoHandler handles upload and playback HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Upload handles POST /api/upload-video
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Filename == "" {
		Error(w, http.StatusBadRequest, "Missing required field: filename")
		return
	}
	if req.FileType == "" {
		Error(w, http.StatusBadRequest, "Missing required field: fileType")
		return
	}
	if req.FileSize == nil {
		Error(w, http.StatusBadRequest, "Missing required field: fileSize")
		return
	}
	if *req.FileSize <= 0 {
		Error(w, http.StatusBadRequest, "Invalid value for field: fileSize")
		return
	}

	output, err := h.svc.CreateUpload(r.Context(), usecase.CreateUploadInput{
		Filename: req.Filename,
		FileType: req.FileType,
		FileSize: *req.FileSize,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, UploadVideoResponse{
		JobID:       output.Job.ID,
		UploadURL:   output.UploadURL,
		UploadPost:  output.UploadPost,
		Bucket:      output.Bucket,
		Key:         output.Job.SourceKey,
		ContentType: output.Job.ContentType,
	})
}

// Info handles GET /api/video-info/{job_id}
func (h *VideoHandler) Info(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		Error(w, http.StatusBadRequest, "Missing required parameter: job_id")
		return
	}

	output, err := h.svc.GetVideoInfo(r.Context(), jobID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, VideoInfoResponse{
		JobID:    output.JobID,
		VideoKey: output.VideoKey,
		Metadata: output.Metadata,
	})
}

// Stream handles GET /api/video-stream/{job_id}
// The presigned URL is returned as data, not a redirect, so the client
// feeds it to the <video> element itself.
func (h *VideoHandler) Stream(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		Error(w, http.StatusBadRequest, "Missing required parameter: job_id")
		return
	}

	streamURL, err := h.svc.GetStreamURL(r.Context(), jobID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, VideoStreamResponse{StreamURL: streamURL})
}

// Download handles GET /api/download/{job_id}/{filename}
// Unlike Stream, this responds with a redirect so a plain anchor tag
// triggers the browser download.
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		Error(w, http.StatusBadRequest, "Missing required parameter: job_id")
		return
	}
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		Error(w, http.StatusBadRequest, "Missing required parameter: filename")
		return
	}

	downloadURL, err := h.svc.GetDownloadURL(r.Context(), jobID, filename)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	http.Redirect(w, r, downloadURL, http.StatusFound)
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrObjectNotFound):
		Error(w, http.StatusNotFound, "Video not found")
	case errors.Is(err, model.ErrEmptyFilename):
		Error(w, http.StatusBadRequest, "Missing required field: filename")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
