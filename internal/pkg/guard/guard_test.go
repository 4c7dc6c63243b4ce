package guard

import (
	"testing"

	"cms-admin/internal/domain/auth"
	"cms-admin/internal/pkg/session"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = session.Snapshot{}
	failed    = session.Snapshot{LastError: session.ErrCredentialFailure.Error()}
	restored  = session.Snapshot{Token: "t", IsAuthenticated: true}
	signedIn  = session.Snapshot{
		Token:           "t",
		IsAuthenticated: true,
		User:            &auth.User{ID: "1", Username: "admin", Role: auth.RoleAdmin},
	}
)

func TestResolve_ProtectedPaths(t *testing.T) {
	paths := []string{"/dashboard", "/contents", "/contents/new", "/contents/edit/42", "/categories"}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			for _, s := range []session.Snapshot{anonymous, failed} {
				d := Resolve(path, s)
				assert.False(t, d.Allow)
				assert.Equal(t, LoginPath, d.Redirect)
			}

			for _, s := range []session.Snapshot{restored, signedIn} {
				d := Resolve(path, s)
				assert.True(t, d.Allow)
				assert.Empty(t, d.Redirect)
			}
		})
	}
}

func TestResolve_PendingReloginStaysAllowed(t *testing.T) {
	pending := signedIn
	pending.IsPending = true

	assert.True(t, Resolve("/contents", pending).Allow)
}

func TestResolve_EntryPages(t *testing.T) {
	for _, path := range []string{"/login", "/register", "/login/"} {
		assert.True(t, Resolve(path, anonymous).Allow, path)
		assert.Equal(t, Decision{Redirect: HomePath}, Resolve(path, signedIn), path)
	}
}

func TestAllowed_FollowsTokenOnly(t *testing.T) {
	assert.False(t, Allowed(anonymous))
	assert.True(t, Allowed(restored), "a restored token without a profile still passes")
}
