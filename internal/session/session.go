package session

import (
	"context"
	"time"
)

// Data is the persisted part of a session.
type Data struct {
	UserID    string    `json:"user_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is resolved once per request by Manager.Middleware and shared
// through the request context.
type Session struct {
	id     string
	data   Data
	isNew  bool
	dirty  bool
	rotate bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) UserID() string {
	return s.data.UserID
}

// SetUserID binds the session to userID. The session is re-issued under a
// fresh id on commit so an id known before login never carries the identity.
func (s *Session) SetUserID(userID string) {
	s.data.UserID = userID
	s.dirty = true
	s.rotate = true
}

// Clear forgets the identity. The stored file is removed on commit.
func (s *Session) Clear() {
	if s.data.UserID == "" && !s.dirty {
		return
	}
	s.data = Data{}
	s.dirty = true
	s.rotate = false
}

func (s *Session) empty() bool {
	return s.data.UserID == ""
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// UserID returns the logged-in user id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.UserID()
}
