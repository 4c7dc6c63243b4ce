// internal/pkg/guard/guard.go
package guard

import (
	"strings"

	"cms-admin/internal/pkg/session"
)

const (
	LoginPath    = "/login"
	RegisterPath = "/register"
	HomePath     = "/dashboard"
)

// Decision is the outcome of one navigation check. Redirect is empty when the
// request may proceed.
type Decision struct {
	Allow    bool
	Redirect string
}

// entryPages are reachable without a session; an authenticated caller is sent
// home instead.
var entryPages = map[string]bool{
	LoginPath:    true,
	RegisterPath: true,
}

// Allowed is the guard predicate: a protected view is reachable only with a
// token in hand.
func Allowed(s session.Snapshot) bool {
	return s.IsAuthenticated
}

// Protected decides access to a view that requires a session.
func Protected(s session.Snapshot) Decision {
	if Allowed(s) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: LoginPath}
}

// Entry decides access to the login and register pages.
func Entry(s session.Snapshot) Decision {
	if s.IsAuthenticated {
		return Decision{Redirect: HomePath}
	}
	return Decision{Allow: true}
}

// IsEntryPage reports whether path is /login or /register.
func IsEntryPage(path string) bool {
	return entryPages[normalize(path)]
}

// Resolve routes a path through the right check.
func Resolve(path string, s session.Snapshot) Decision {
	if IsEntryPage(path) {
		return Entry(s)
	}
	return Protected(s)
}

func normalize(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
