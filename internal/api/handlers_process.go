package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/advisordocs/reportgen/internal/pipeline"
	"github.com/advisordocs/reportgen/internal/transcript"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	switch {
	case transcript.IsTranscript(filename):
	case transcript.IsAudio(filename), transcript.IsVideo(filename):
		if !s.orchestrator.Transcribes() {
			jsonError(w, "audio/video uploads require transcription to be configured", http.StatusBadRequest)
			return
		}
	default:
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	jobDir := filepath.Join(s.cfg.OutputDir, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		jsonError(w, "failed to create job directory", http.StatusInternalServerError)
		return
	}

	// Stream the upload to disk; recordings can be hundreds of megabytes.
	inputPath := filepath.Join(jobDir, "input"+strings.ToLower(filepath.Ext(filename)))
	out, err := os.Create(inputPath)
	if err != nil {
		jsonError(w, "failed to save upload", http.StatusInternalServerError)
		return
	}
	n, err := io.Copy(out, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.RemoveAll(jobDir)
		jsonError(w, "failed to save upload", http.StatusInternalServerError)
		return
	}
	if n > s.cfg.MaxUploadBytes {
		os.RemoveAll(jobDir)
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        jobID,
		Filename:  filename,
		InputPath: inputPath,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orchestrator.Submit(job); err != nil {
		os.RemoveAll(jobDir)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/process/%s/status", job.ID),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobFromRequest(w, r)
	if !ok {
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobFromRequest(w, r)
	if !ok {
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s, not completed", snap.Status), http.StatusConflict)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	var path, contentType string
	switch format {
	case "pdf":
		path = snap.Artifacts.PDFPath
		contentType = "application/pdf"
		if path == "" {
			jsonError(w, "pdf was not generated, try format=docx", http.StatusNotFound)
			return
		}
	case "docx":
		path = snap.Artifacts.DocxPath
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		jsonError(w, "format must be pdf or docx", http.StatusBadRequest)
		return
	}
	if path == "" {
		jsonError(w, "report not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report."+format))
	http.ServeFile(w, r, path)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobFromRequest(w, r)
	if !ok {
		return
	}
	snap := job.Snapshot()
	if snap.Artifacts.JSONPath == "" {
		jsonError(w, "extracted data not available yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, snap.Artifacts.JSONPath)
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	return job, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
