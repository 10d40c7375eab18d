package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/usecase"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("unable to encode response", zap.Error(err))
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

var domainStatus = map[string]int{
	usecase.CodeValidation:   http.StatusBadRequest,
	usecase.CodeUnauthorized: http.StatusUnauthorized,
	usecase.CodeNotFound:     http.StatusNotFound,
	usecase.CodeConflict:     http.StatusConflict,
}

// writeUseCaseError reports domain errors with their own message. Anything
// else is logged and answered with a 500 carrying fallback.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if de, ok := usecase.AsDomainError(err); ok {
		if status, known := domainStatus[de.Code]; known {
			writeErrorResponse(w, status, de.Message)
			return
		}
	}

	zap.L().Error(fallback,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeErrorResponse(w, http.StatusInternalServerError, fallback)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
