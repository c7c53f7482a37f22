package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"mentor-backend/internal/middleware"
	"mentor-backend/internal/models"
	"mentor-backend/internal/session"
)

type exchanger interface {
	Exchange(ctx context.Context, callerKey, message string) session.Result
}

type MentorHandler struct {
	sessions  exchanger
	errorMode string
}

func NewMentorHandler(sessions exchanger, errorMode string) *MentorHandler {
	return &MentorHandler{sessions: sessions, errorMode: errorMode}
}

// BuildMentorMessage renders a problem and its code into the message sent to the model.
func BuildMentorMessage(problem, code string) string {
	return "Code: `" + code + "`\nProblem: " + problem
}

// Mentor answers a problem statement accompanied by the student's code.
func (h *MentorHandler) Mentor(w http.ResponseWriter, r *http.Request) {
	var req models.MentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if req.UserProblem == nil {
		fields["user_problem"] = "required"
	}
	if req.UserCode == nil {
		fields["user_code"] = "required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	h.exchange(w, r, BuildMentorMessage(*req.UserProblem, *req.UserCode))
}

// Chat forwards a single free-form message.
func (h *MentorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Message == nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{"message": "required"}, r))
		return
	}

	h.exchange(w, r, *req.Message)
}

func (h *MentorHandler) exchange(w http.ResponseWriter, r *http.Request, message string) {
	res := h.sessions.Exchange(r.Context(), middleware.GetSessionID(r.Context()), message)
	if !res.OK() {
		zerolog.Ctx(r.Context()).Error().Err(res.Err).Str("path", r.URL.Path).Msg("Model exchange failed")
	}

	status, body := Envelope(res, h.errorMode, chimiddleware.GetReqID(r.Context()))
	writeJSON(w, status, body)
}
