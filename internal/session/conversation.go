package session

import "mentor-backend/internal/models"

// Conversation is the ordered transcript sent to the model on every call.
// Turns[0] is always the persona instruction.
type Conversation struct {
	Turns []models.Turn `json:"turns"`
}

func NewConversation(persona string) *Conversation {
	return &Conversation{Turns: []models.Turn{{Role: models.RoleUser, Content: persona}}}
}

// History returns a copy of the transcript.
func (c *Conversation) History() []models.Turn {
	out := make([]models.Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}

// Append records one completed exchange.
func (c *Conversation) Append(message, reply string) {
	c.Turns = append(c.Turns,
		models.Turn{Role: models.RoleUser, Content: message},
		models.Turn{Role: models.RoleModel, Content: reply},
	)
}

// Prune keeps at most maxTurns turns after the persona, dropping the oldest
// in user/model pairs. maxTurns <= 0 disables the bound.
func (c *Conversation) Prune(maxTurns int) {
	if maxTurns <= 0 || len(c.Turns) <= 1 {
		return
	}
	excess := len(c.Turns) - 1 - maxTurns
	if excess <= 0 {
		return
	}
	if excess%2 == 1 {
		excess++
	}
	if excess > len(c.Turns)-1 {
		excess = len(c.Turns) - 1
	}
	c.Turns = append(c.Turns[:1], c.Turns[1+excess:]...)
}

func (c *Conversation) clone() *Conversation {
	return &Conversation{Turns: c.History()}
}
