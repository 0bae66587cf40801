package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Message is one turn of the conversation.
type Message struct {
	Role      string    `json:"role"` // user or assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the per-conversation state: which member the caller verified as,
// plus a bounded window of prior turns fed back to the model.
type Session struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id,omitempty"`
	History   []Message `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Append adds a message and trims the history to the last limit entries.
func (s *Session) Append(msg Message, limit int) {
	s.History = append(s.History, msg)
	if limit > 0 && len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
	s.UpdatedAt = msg.CreatedAt
}

// Store persists sessions. Implementations bound session lifetime with the
// TTL they were constructed with.
type Store interface {
	// Ensure returns the session with the given id, creating a fresh one
	// (with a generated id) when id is empty or unknown.
	Ensure(ctx context.Context, id string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, sess Session) error
	Delete(ctx context.Context, id string) error
}
