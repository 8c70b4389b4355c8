package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	disputeRequest "github.com/dolpagu/dispute-service/internal/delivery/http/dto/dispute/request"
	"github.com/dolpagu/dispute-service/internal/domain"
	usecase "github.com/dolpagu/dispute-service/internal/usecase/dispute"
)

// userIDHeader carries the authenticated caller's id. The gateway in front of
// this service owns authentication; the header is trusted as-is.
const userIDHeader = "X-User-ID"

type DisputeHandler struct {
	uc usecase.DisputeUsecase
}

func NewDisputeHandler(uc usecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{uc: uc}
}

func (h *DisputeHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerFrom(w, r)
	if !ok {
		return
	}
	disputes, err := h.uc.ListDisputes(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"disputes": disputes})
}

func (h *DisputeHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerFrom(w, r)
	if !ok {
		return
	}
	entries, err := h.uc.GetTimeline(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": entries})
}

func (h *DisputeHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req disputeRequest.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.uc.SubmitResponse(r.Context(), r.PathValue("id"), callerID, req.Response); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(domain.StatusAIReviewing)})
}

func (h *DisputeHandler) RequestVerdict(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerFrom(w, r)
	if !ok {
		return
	}
	output, err := h.uc.RequestVerdict(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (h *DisputeHandler) AcceptVerdict(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerFrom(w, r)
	if !ok {
		return
	}
	output, err := h.uc.AcceptVerdict(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (h *DisputeHandler) Appeal(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerFrom(w, r)
	if !ok {
		return
	}
	var req disputeRequest.AppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.uc.Appeal(r.Context(), r.PathValue("id"), callerID, req.AppealReason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(domain.StatusAdminReview)})
}

func callerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	callerID := r.Header.Get(userIDHeader)
	if callerID == "" {
		writeErrorStatus(w, http.StatusUnauthorized, "missing user identity")
		return "", false
	}
	return callerID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorStatus(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeErrorStatus(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("dispute handler failed", "error", err.Error())
		writeErrorStatus(w, http.StatusInternalServerError, "internal error")
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
