package models

// Role identifies the speaker of a Turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MentorRequest is the payload sent to the mentor endpoint.
// Fields are pointers so a missing field can be told apart from an empty one.
type MentorRequest struct {
	UserProblem *string `json:"user_problem"`
	UserCode    *string `json:"user_code"`
}

// ChatRequest is the payload sent to the chat endpoint and over the websocket.
type ChatRequest struct {
	Message *string `json:"message"`
}

// MentorResponse is the reply envelope for every surface.
type MentorResponse struct {
	Response string    `json:"response"`
	Error    *APIError `json:"error,omitempty"`
}
