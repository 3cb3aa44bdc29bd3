package handler

import (
	"encoding/json"
	"net/http"

	"github.com/acesso-api/internal/application/notify"
	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/pkg/validate"
)

// NotificationHandler triggers report broadcasts to active subscribers.
type NotificationHandler struct {
	svc notify.Service
}

func NewNotificationHandler(svc notify.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type broadcastRequest struct {
	Type    string `json:"type" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary"`
}

// BroadcastReport fans a new-report notification out to every active
// subscriber and returns the per-recipient tally.
func (h *NotificationHandler) BroadcastReport(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta := domain.ReportMeta{Type: req.Type, Title: req.Title, Summary: req.Summary}
	result, err := h.svc.BroadcastReport(r.Context(), meta)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
