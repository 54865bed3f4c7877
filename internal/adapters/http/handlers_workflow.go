package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/application"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

func (h *Handler) createCollaboration(w http.ResponseWriter, r *http.Request) {
	var req application.CreateCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	created, err := h.service.CreateCollaboration(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (h *Handler) updateCollaborationStatus(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "request_id")
	var req application.UpdateCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	updated, err := h.service.UpdateCollaborationStatus(r.Context(), requestID, req)
	if err != nil {
		var limitErr *domain.LimitError
		if errors.As(err, &limitErr) {
			writeLimitExceeded(w, limitErr)
			return
		}
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, updated)
}

func (h *Handler) listSellerCollaborations(w http.ResponseWriter, r *http.Request) {
	sellerID, err := pathInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	requests, err := h.service.ListSellerCollaborations(r.Context(), sellerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, requests)
}

func (h *Handler) listInfluencerCollaborations(w http.ResponseWriter, r *http.Request) {
	influencerID, err := pathInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	requests, err := h.service.ListInfluencerCollaborations(r.Context(), influencerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, requests)
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req application.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateCampaign(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	status := http.StatusCreated
	if !resp.Created {
		status = http.StatusOK
	}
	writeSuccess(w, status, resp)
}

func (h *Handler) listPendingCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.ListPendingCampaigns(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaigns)
}

func (h *Handler) listSellerCampaigns(w http.ResponseWriter, r *http.Request) {
	sellerID, err := pathInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	campaigns, err := h.service.ListSellerCampaigns(r.Context(), sellerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaigns)
}

func (h *Handler) listInfluencerCampaigns(w http.ResponseWriter, r *http.Request) {
	influencerID, err := pathInt64(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	campaigns, err := h.service.ListInfluencerCampaigns(r.Context(), influencerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaigns)
}

func (h *Handler) cancelCampaign(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "request_id")
	if err := h.service.CancelCampaign(r.Context(), requestID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "campaign request cancelled")
}

func (h *Handler) approveCampaign(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "request_id")
	campaign, err := h.service.ApproveCampaign(r.Context(), requestID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaign)
}

func (h *Handler) rejectCampaign(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "request_id")
	campaign, err := h.service.RejectCampaign(r.Context(), requestID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, campaign)
}

func (h *Handler) listAdminActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.service.ListAdminActions(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, actions)
}

func (h *Handler) updateAdminAction(w http.ResponseWriter, r *http.Request) {
	adminActionID, err := pathInt64(r, "admin_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	action, err := h.service.UpdateAdminAction(r.Context(), adminActionID, req.Status)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, action)
}
