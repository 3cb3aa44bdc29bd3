package handler

import (
	"encoding/json"
	"net/http"

	"github.com/acesso-api/internal/application/access"
	"github.com/acesso-api/internal/pkg/validate"
	"github.com/acesso-api/internal/transport/http/middleware"
)

// AccessHandler exposes the subscriber gate: eligibility check, code
// request and code redemption.
type AccessHandler struct {
	svc access.Service
}

func NewAccessHandler(svc access.Service) *AccessHandler {
	return &AccessHandler{svc: svc}
}

type checkRequest struct {
	CPF string `json:"cpf" validate:"required"`
}

type codeRequest struct {
	CPF string `json:"cpf" validate:"required"`
}

type redeemRequest struct {
	CPF  string `json:"cpf" validate:"required,cpf"`
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type sessionInfo struct {
	CPF       string `json:"cpf"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// Check classifies a CPF. The outcome travels in the body; the status code
// mirrors it so plain HTTP clients get sensible semantics too.
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.svc.CheckEligibility(r.Context(), req.CPF)
	writeJSON(w, outcomeStatus(result.Outcome), result)
}

// RequestCode issues and dispatches a one-time code for an active subscriber.
func (h *AccessHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.svc.RequestCode(r.Context(), req.CPF)
	writeJSON(w, outcomeStatus(result.Outcome), result)
}

// Redeem exchanges CPF plus code for a session token. A malformed code or
// CPF is rejected before the store is touched, with the same INVALID_CODE
// answer a wrong code gets.
func (h *AccessHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		if req.CPF == "" || req.Code == "" {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusUnauthorized, access.RedeemResult{Outcome: access.OutcomeInvalidCode})
		return
	}

	result := h.svc.RedeemCode(r.Context(), req.CPF, req.Code)
	writeJSON(w, outcomeStatus(result.Outcome), result)
}

// Session echoes the authenticated session's claims.
func (h *AccessHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}
	writeJSON(w, http.StatusOK, sessionInfo{
		CPF:       claims.CPF,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}

func outcomeStatus(o access.Outcome) int {
	switch o {
	case access.OutcomeActive, access.OutcomeCodeIssued, access.OutcomeSessionGranted:
		return http.StatusOK
	case access.OutcomeInvalidFormat:
		return http.StatusUnprocessableEntity
	case access.OutcomeNotFound:
		return http.StatusNotFound
	case access.OutcomeInactive:
		return http.StatusForbidden
	case access.OutcomeAlreadyExists:
		return http.StatusConflict
	case access.OutcomeInvalidCode:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
