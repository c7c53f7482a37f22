package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mentor-backend/internal/config"
	"mentor-backend/internal/models"
	"mentor-backend/internal/session"
)

// ErrorPrefix starts every reply that carries a failure description.
const ErrorPrefix = "An error occurred: "

// Envelope maps an exchange result onto the wire. In embedded mode a failure
// is still a 200 whose response text describes the error; in status mode it is
// a 502 with an error object alongside the same text, or a 400 when the input
// itself was rejected.
func Envelope(res session.Result, errorMode, requestID string) (int, models.MentorResponse) {
	if res.OK() {
		return http.StatusOK, models.MentorResponse{Response: res.Reply}
	}

	body := models.MentorResponse{Response: ErrorPrefix + res.Err.Error()}
	if errorMode != config.ErrorModeStatus {
		return http.StatusOK, body
	}

	status, code := http.StatusBadGateway, "AI_ERROR"
	if errors.Is(res.Err, session.ErrEmptyMessage) {
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	}
	body.Error = &models.APIError{
		Code:      code,
		Message:   res.Err.Error(),
		RequestID: requestID,
	}
	return status, body
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: chimiddleware.GetReqID(r.Context()),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, message, r)
	resp.Error.Fields = fields
	return resp
}
