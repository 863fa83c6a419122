package handlers

import (
	"encoding/json"
	"net/http"
	"unicode"

	"go.uber.org/zap"

	pkgerrors "skillmap-backend/pkg/errors"
)

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(logger *zap.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(logger, w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// respondAppError maps an application error to its HTTP status. Internal
// details are logged, not exposed.
func respondAppError(logger *zap.Logger, w http.ResponseWriter, err error) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		logger.Error("unexpected error", zap.Error(err))
		respondError(logger, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		respondError(logger, w, appErr.HTTPStatus, "Internal server error")
		return
	}
	respondError(logger, w, appErr.HTTPStatus, sentence(appErr.Message))
}

// sentence upper-cases the first rune of a domain error message for the
// response body.
func sentence(message string) string {
	runes := []rune(message)
	if len(runes) == 0 {
		return message
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
