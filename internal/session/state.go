// Package session is the per-user state container of the gateway: who is
// logged in and how many posts they have authored. State changes only
// through commands applied by Reduce; stores serialize dispatches.
package session

import (
	"time"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// State is an immutable snapshot of one session.
type State struct {
	User      *domain.User `json:"user,omitempty"`
	Token     string       `json:"-"`
	LoggedIn  bool         `json:"logged_in"`
	PostCount int          `json:"post_count"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Command is a state transition. The set of commands is closed.
type Command interface{ command() }

// SetUser starts (or refreshes) a session for User.
type SetUser struct {
	User  domain.User
	Token string
}

// Logout ends the session and clears everything it held.
type Logout struct{}

// IncPostCount records one more authored post.
type IncPostCount struct{}

// DecPostCount records one fewer authored post. The count never goes below 0.
type DecPostCount struct{}

// SetPostCount replaces the count with an authoritative value.
type SetPostCount struct{ N int }

func (SetUser) command()      {}
func (Logout) command()       {}
func (IncPostCount) command() {}
func (DecPostCount) command() {}
func (SetPostCount) command() {}

// Reduce returns the state that results from applying cmd to s. It does not
// modify s. Post count commands on a logged-out state are ignored.
func Reduce(s State, cmd Command, now time.Time) State {
	switch c := cmd.(type) {
	case SetUser:
		u := c.User
		next := State{User: &u, Token: c.Token, LoggedIn: true, UpdatedAt: now}
		if s.LoggedIn && s.User != nil && s.User.RecordID == u.RecordID {
			next.PostCount = s.PostCount
		}
		return next
	case Logout:
		return State{UpdatedAt: now}
	case IncPostCount:
		if !s.LoggedIn {
			return s
		}
		s.PostCount++
	case DecPostCount:
		if !s.LoggedIn {
			return s
		}
		s.PostCount = max(s.PostCount-1, 0)
	case SetPostCount:
		if !s.LoggedIn {
			return s
		}
		s.PostCount = max(c.N, 0)
	default:
		return s
	}
	s.UpdatedAt = now
	return s
}
