// internal/pkg/session/manager.go
package session

import (
	"context"
	"errors"
	"sync"

	"cms-admin/internal/domain/auth"
	xerrors "cms-admin/internal/pkg/errors"

	"go.uber.org/zap"
)

// Backend performs the credential exchange with the identity system.
type Backend interface {
	Login(ctx context.Context, email, password string) (*auth.Result, error)
	Register(ctx context.Context, username, email, password string) (*auth.Result, error)
}

// ProfileFetcher is implemented by backends that can resolve a stored token
// back into its user. Profile returns xerrors.ErrInvalidToken when the token is
// no longer accepted.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string) (*auth.User, error)
}

// Manager owns the single authentication session of a console process.
type Manager struct {
	mu sync.Mutex

	user    *auth.User
	token   string
	pending bool
	failure error

	// gen is bumped by every login, register and logout so results of an
	// attempt that was overtaken are dropped instead of applied.
	gen uint64

	backend   Backend
	observers []Observer
	logger    *zap.Logger
}

// NewManager builds the session from whatever token the store holds. Only the
// token is restored; the user stays nil until Revalidate or a new login.
//
// The store is written while the session lock is held, so a slow store (up to
// storeTimeout per write) also stalls Snapshot and every guarded request.
func NewManager(ctx context.Context, backend Backend, store TokenStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		backend: backend,
		logger:  logger,
	}

	token, err := store.Load(ctx)
	if err != nil {
		logger.Warn("failed to read persisted session token, starting anonymous", zap.Error(err))
		token = ""
	}
	m.token = token
	m.observers = append(m.observers, newTokenPersister(store, logger))

	if token != "" {
		logger.Info("session restored from storage", zap.Bool("profile_loaded", false))
	}

	return m
}

// AddObserver registers o for all later transitions.
func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Snapshot returns the current session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Authenticated reports whether a token is held right now.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// Login exchanges credentials for a session. Failures are recorded in the
// returned snapshot, never returned as an error.
func (m *Manager) Login(ctx context.Context, email, password string) Snapshot {
	return m.exchange(ctx, "login", ErrCredentialFailure, func(ctx context.Context) (*auth.Result, error) {
		return m.backend.Login(ctx, email, password)
	})
}

// Register creates an account and signs into it. Failures are recorded in the
// returned snapshot.
func (m *Manager) Register(ctx context.Context, username, email, password string) Snapshot {
	return m.exchange(ctx, "register", ErrRegistrationFailure, func(ctx context.Context) (*auth.Result, error) {
		return m.backend.Register(ctx, username, email, password)
	})
}

// Logout drops the user and token. Any in-flight attempt is superseded. Calling
// it on an anonymous session changes nothing.
func (m *Manager) Logout() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	return m.transition(func() {
		m.user = nil
		m.token = ""
		m.pending = false
	})
}

// Revalidate resolves a token restored at startup into a user profile when the
// backend can do so. A rejected token ends the session.
func (m *Manager) Revalidate(ctx context.Context) Snapshot {
	m.mu.Lock()
	token, gen := m.token, m.gen
	needsProfile := token != "" && m.user == nil
	m.mu.Unlock()

	if !needsProfile {
		return m.Snapshot()
	}

	fetcher, ok := m.backend.(ProfileFetcher)
	if !ok {
		m.logger.Info("identity backend cannot fetch profiles, session keeps token without user")
		return m.Snapshot()
	}

	user, err := fetcher.Profile(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || token != m.token {
		return m.snapshotLocked()
	}

	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidToken) {
			m.logger.Info("persisted session token rejected, signing out", zap.Error(err))
			m.gen++
			return m.transition(func() {
				m.user = nil
				m.token = ""
			})
		}
		m.logger.Warn("profile fetch failed, keeping session", zap.Error(err))
		return m.snapshotLocked()
	}

	return m.transition(func() {
		m.user = user.Clone()
	})
}

func (m *Manager) exchange(ctx context.Context, op string, failure error, call func(context.Context) (*auth.Result, error)) Snapshot {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.transition(func() {
		m.pending = true
		m.failure = nil
	})
	m.mu.Unlock()

	res, err := call(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		m.logger.Debug("dropping superseded credential exchange", zap.String("op", op))
		return m.snapshotLocked()
	}

	if ctx.Err() != nil {
		m.logger.Info("credential exchange abandoned", zap.String("op", op), zap.Error(ctx.Err()))
		return m.transition(func() {
			m.pending = false
		})
	}

	if err == nil && (res == nil || res.Token == "" || res.User == nil) {
		err = errors.New("identity backend returned an empty result")
	}

	if err != nil {
		m.logger.Warn("credential exchange failed", zap.String("op", op), zap.Error(err))
		return m.transition(func() {
			m.user = nil
			m.token = ""
			m.pending = false
			m.failure = failure
		})
	}

	m.logger.Info("session authenticated",
		zap.String("op", op),
		zap.String("user_id", res.User.ID),
		zap.String("role", string(res.User.Role)),
	)
	return m.transition(func() {
		m.user = res.User.Clone()
		m.token = res.Token
		m.pending = false
		m.failure = nil
	})
}

// transition applies fn and notifies observers when something changed. The
// caller must hold m.mu.
func (m *Manager) transition(fn func()) Snapshot {
	prev := m.snapshotLocked()
	fn()
	next := m.snapshotLocked()

	if prev.equal(next) {
		return next
	}
	for _, o := range m.observers {
		o.Observe(prev, next)
	}
	return next
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{
		User:            m.user.Clone(),
		Token:           m.token,
		IsAuthenticated: m.token != "",
		IsPending:       m.pending,
		failure:         m.failure,
	}
	if m.failure != nil {
		s.LastError = m.failure.Error()
	}
	return s
}
