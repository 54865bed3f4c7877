package http

import (
	"encoding/json"
	"net/http"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeLimitExceeded renders the quota rejection body mobile clients use
// to show the upgrade prompt.
func writeLimitExceeded(w http.ResponseWriter, limitErr *domain.LimitError) {
	tier := limitErr.Tier
	if tier == "" {
		tier = domain.TierBasic
	}
	writeJSON(w, http.StatusForbidden, map[string]any{
		"status":           "error",
		"code":             "LIMIT_EXCEEDED",
		"message":          limitErr.Error(),
		"current_tier":     tier,
		"current_count":    limitErr.Current,
		"max_allowed":      limitErr.Limit,
		"upgrade_required": true,
	})
}
