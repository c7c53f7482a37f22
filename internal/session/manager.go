package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"mentor-backend/internal/models"
)

// ErrEmptyMessage rejects an exchange before the model is called.
var ErrEmptyMessage = errors.New("message is empty")

// Sender is the model call made for every exchange.
type Sender interface {
	Send(ctx context.Context, history []models.Turn, message string) (string, error)
}

// Result is the outcome of one exchange: either Reply or Err is set.
type Result struct {
	Reply string
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Options struct {
	Scope    Scope
	Persona  string
	MaxTurns int
	Timeout  time.Duration
}

// Manager runs exchanges against Conversations scoped by its policy.
type Manager struct {
	sender   Sender
	store    Store
	scope    Scope
	persona  string
	maxTurns int
	timeout  time.Duration
	locks    *keyedMutex
}

func NewManager(sender Sender, store Store, opts Options) (*Manager, error) {
	if sender == nil {
		return nil, errors.New("session: sender must not be nil")
	}
	if store == nil && opts.Scope != ScopeRequest {
		return nil, errors.New("session: store must not be nil")
	}
	if _, err := ParseScope(string(opts.Scope)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Persona) == "" {
		return nil, errors.New("session: persona must not be empty")
	}

	return &Manager{
		sender:   sender,
		store:    store,
		scope:    opts.Scope,
		persona:  opts.Persona,
		maxTurns: opts.MaxTurns,
		timeout:  opts.Timeout,
		locks:    newKeyedMutex(),
	}, nil
}

func (m *Manager) Scope() Scope {
	return m.scope
}

// Exchange sends message within the Conversation selected by the scope policy.
// callerKey is only used in caller scope. The transcript is updated only when
// the model replies.
func (m *Manager) Exchange(ctx context.Context, callerKey, message string) Result {
	if message == "" {
		return Result{Err: ErrEmptyMessage}
	}

	if m.scope == ScopeRequest {
		reply, err := m.send(ctx, NewConversation(m.persona).History(), message)
		return Result{Reply: reply, Err: err}
	}

	key := GlobalKey
	if m.scope == ScopeCaller {
		if callerKey == "" {
			return Result{Err: ErrNoSessionKey}
		}
		key = callerKey
	}

	unlock := m.locks.Lock(key)
	defer unlock()

	conv, err := m.store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		conv = NewConversation(m.persona)
	} else if err != nil {
		return Result{Err: fmt.Errorf("failed to load conversation: %w", err)}
	}

	reply, err := m.send(ctx, conv.History(), message)
	if err != nil {
		return Result{Err: err}
	}

	conv.Append(message, reply)
	conv.Prune(m.maxTurns)
	if err := m.store.Save(ctx, key, conv); err != nil {
		log.Error().Err(err).Str("scope", string(m.scope)).Msg("Failed to save conversation")
	}

	return Result{Reply: reply}
}

// End forgets the Conversation of callerKey. It is a no-op outside caller scope.
func (m *Manager) End(ctx context.Context, callerKey string) error {
	if m.scope != ScopeCaller || callerKey == "" {
		return nil
	}
	unlock := m.locks.Lock(callerKey)
	defer unlock()
	return m.store.Delete(ctx, callerKey)
}

func (m *Manager) send(ctx context.Context, history []models.Turn, message string) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.sender.Send(ctx, history, message)
}
