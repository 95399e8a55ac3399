/*
Package session carries the operator's authenticated context as an
explicit value instead of ambient state.

PURPOSE:
  Every call that crosses to the remote persistence collaborator is
  authenticated by an opaque bearer credential. The engine never reads
  it from anywhere ambient and never interprets it: a Session is built
  at the edge (the API middleware, or cmd/server configuration), placed
  on the context, and attached verbatim to outgoing requests.

SEE ALSO:
  - store/remote: the only consumer of the credential
  - api/server.go: where sessions are built from Authorization headers
*/
package session

import (
	"context"
	"errors"
)

// ErrNoSession is returned when an operation that must authenticate has
// no session on its context.
var ErrNoSession = errors.New("no session in context")

// Session is the operator's authenticated context. Token is opaque: the
// engine attaches it, never parses it. The profile fields are display
// hints cached at login.
type Session struct {
	Token string
	UserID string
	Name   string
	Role   string
}

type contextKey struct{}

// NewContext returns ctx carrying the session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session placed by NewContext.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || s.Token == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}
