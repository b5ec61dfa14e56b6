package handlers

import (
	"encoding/json"
	"net/http"

	"chatbot/internal/apperr"
)

// ErrorResponse is the JSON body for non-streaming failures
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends a standardized JSON error response
func sendError(w http.ResponseWriter, status int, code apperr.Code, message string, err error) {
	errResp := ErrorResponse{
		Message: message,
		Code:    string(code),
	}
	if err != nil {
		errResp.Error = err.Error()
	}
	writeJSON(w, status, errResp)
}

// sendAppError maps a service error onto an HTTP status using its code
func sendAppError(w http.ResponseWriter, message string, err error) {
	sendError(w, apperr.HTTPStatus(err), apperr.CodeOf(err), message, err)
}
