// internal/pkg/session/types.go
package session

import (
	"errors"

	"cms-admin/internal/domain/auth"
)

// The only two failures the manager ever records. Their messages are fixed and
// never carry the backend's cause.
var (
	ErrCredentialFailure   = errors.New("Login failed. Check your credentials.")
	ErrRegistrationFailure = errors.New("Registration failed. Please try again.")
)

// State is the observable node of the session state machine.
type State string

const (
	StateAnonymous     State = "anonymous"
	StatePending       State = "pending"
	StateAuthenticated State = "authenticated"
)

// Snapshot is an immutable copy of the session at one point in time.
type Snapshot struct {
	User            *auth.User `json:"user"`
	Token           string     `json:"-"`
	IsAuthenticated bool       `json:"is_authenticated"`
	IsPending       bool       `json:"is_pending"`
	LastError       string     `json:"last_error,omitempty"`

	failure error
}

// State derives the state machine node. Pending wins over the settled flags so a
// re-login from an authenticated session still reads as in flight.
func (s Snapshot) State() State {
	switch {
	case s.IsPending:
		return StatePending
	case s.IsAuthenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// Failure returns ErrCredentialFailure, ErrRegistrationFailure or nil.
func (s Snapshot) Failure() error {
	return s.failure
}

// Username returns the user's name or "" when no profile is loaded.
func (s Snapshot) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// View is the shape the session is published in. It never carries the token.
type View struct {
	State           State      `json:"state"`
	User            *auth.User `json:"user"`
	IsAuthenticated bool       `json:"is_authenticated"`
	IsPending       bool       `json:"is_pending"`
	LastError       string     `json:"last_error,omitempty"`
}

func (s Snapshot) View() View {
	return View{
		State:           s.State(),
		User:            s.User,
		IsAuthenticated: s.IsAuthenticated,
		IsPending:       s.IsPending,
		LastError:       s.LastError,
	}
}

func (s Snapshot) equal(o Snapshot) bool {
	if s.Token != o.Token || s.IsAuthenticated != o.IsAuthenticated ||
		s.IsPending != o.IsPending || s.LastError != o.LastError {
		return false
	}
	switch {
	case s.User == nil && o.User == nil:
		return true
	case s.User == nil || o.User == nil:
		return false
	default:
		return *s.User == *o.User
	}
}

// Observer is notified after every transition that changed the session.
// Observers run in transition order while the manager's lock is held, so they
// must not call back into the manager.
type Observer interface {
	Observe(prev, next Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(prev, next Snapshot)

func (f ObserverFunc) Observe(prev, next Snapshot) { f(prev, next) }
