package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acesso-api/internal/application/report"
	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/pkg/validate"
)

// ReportHandler serves the report archive to subscribers and the publishing
// endpoints to admins.
type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type publishRequest struct {
	Type          string `json:"type" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Summary       string `json:"summary"`
	Filename      string `json:"filename" validate:"required"`
	ContentBase64 string `json:"content_base64" validate:"required"`
}

type updateReportRequest struct {
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary"`
}

type downloadEnvelope struct {
	URL string `json:"url"`
}

// Types lists the report catalog: slug to display name.
func (h *ReportHandler) Types(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.ReportTypes)
}

// List returns the reports of one type, newest first.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		writeError(w, http.StatusBadRequest, "missing type query parameter")
		return
	}
	reports, err := h.svc.ListByType(r.Context(), reportType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Latest returns the most recent report of one type.
func (h *ReportHandler) Latest(w http.ResponseWriter, r *http.Request) {
	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		writeError(w, http.StatusBadRequest, "missing type query parameter")
		return
	}
	rep, err := h.svc.Latest(r.Context(), reportType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Download hands out a short-lived presigned URL for the report file.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	url, err := h.svc.DownloadURL(r.Context(), reportID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadEnvelope{URL: url})
}

// Publish accepts a base64-encoded report file plus metadata and stores both.
func (h *ReportHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content_base64 is not valid base64")
		return
	}

	meta := domain.ReportMeta{Type: req.Type, Title: req.Title, Summary: req.Summary}
	rep, err := h.svc.Publish(r.Context(), meta, req.Filename, bytes.NewReader(content))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// Update rewrites a report's title and summary.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	var req updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta := domain.ReportMeta{Title: req.Title, Summary: req.Summary}
	if err := h.svc.UpdateMeta(r.Context(), reportID, meta); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "report updated"})
}

// Delete removes a report's file and metadata.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	if err := h.svc.Unpublish(r.Context(), reportID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "report deleted"})
}
