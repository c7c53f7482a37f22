package session

import (
	"errors"
	"fmt"
	"strings"
)

// Scope decides which requests share a Conversation.
type Scope string

const (
	// ScopeRequest builds a fresh Conversation for every exchange.
	ScopeRequest Scope = "request"
	// ScopeCaller keeps one Conversation per caller session ID.
	ScopeCaller Scope = "caller"
	// ScopeGlobal shares one Conversation between every caller of the process.
	ScopeGlobal Scope = "global"
)

// GlobalKey is the store key of the process-wide Conversation.
const GlobalKey = "global"

var ErrNoSessionKey = errors.New("session key is required for caller scope")

func ParseScope(s string) (Scope, error) {
	switch scope := Scope(strings.ToLower(strings.TrimSpace(s))); scope {
	case ScopeRequest, ScopeCaller, ScopeGlobal:
		return scope, nil
	default:
		return "", fmt.Errorf("unknown session scope %q", s)
	}
}
