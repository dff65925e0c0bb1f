package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teameicu/careportal/internal/client/session"
)

type mockAuthAPI struct {
	LoginFn func(ctx context.Context, identifier, password string) (LoginResult, error)
}

func (m *mockAuthAPI) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	return m.LoginFn(ctx, identifier, password)
}

func newTestPortal(auth AuthAPI) (*Portal, session.Store) {
	st := session.NewMemStore()
	return New(st, auth, zap.NewNop()), st
}

func TestLoginSuccessDefaultsToPatient(t *testing.T) {
	p, st := newTestPortal(nil)

	state, dest := p.LoginSuccess("alice", false)

	assert.Equal(t, session.StatePatient, state)
	assert.Equal(t, DestDashboard, dest)
	sess := session.Load(st)
	assert.True(t, sess.LoggedIn)
	assert.False(t, sess.Admin)
	assert.Equal(t, "alice", sess.Username)
	_, ok := st.Get(session.KeyRole)
	assert.False(t, ok, "no role source should leave the role key absent")
}

func TestLoginSuccessAdminFlag(t *testing.T) {
	p, _ := newTestPortal(nil)

	state, dest := p.LoginSuccess("Admin", true)

	assert.Equal(t, session.StateAdmin, state)
	assert.Equal(t, DestAdminDash, dest)
}

func TestLoginSuccessUsesRegistryRole(t *testing.T) {
	p, st := newTestPortal(nil)
	p.Registry().Put("drpat", session.UserRecord{Email: "drpat@example.com", Role: "Doctor"})

	state, dest := p.LoginSuccess("drpat", false)

	assert.Equal(t, session.StateDoctor, state)
	assert.Equal(t, DestDoctorDash, dest)
	v, _ := st.Get(session.KeyRole)
	assert.Equal(t, "Doctor", v)
}

func TestLoginSuccessFallsBackToStoredRole(t *testing.T) {
	p, st := newTestPortal(nil)
	st.Set(session.KeyRole, "Doctor")

	state, _ := p.LoginSuccess("someone", false)

	assert.Equal(t, session.StateDoctor, state)
}

func TestLoginWritesTokenAndEmail(t *testing.T) {
	auth := &mockAuthAPI{
		LoginFn: func(context.Context, string, string) (LoginResult, error) {
			return LoginResult{Token: "jwt", Username: "alice", Email: "alice@example.com", Role: "Patient"}, nil
		},
	}
	p, st := newTestPortal(auth)

	state, dest, err := p.Login(context.Background(), "alice@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.StatePatient, state)
	assert.Equal(t, DestDashboard, dest)
	sess := session.Load(st)
	assert.Equal(t, "jwt", sess.Token)
	assert.Equal(t, "alice@example.com", sess.Email)
}

func TestLoginAdminRoleFromServer(t *testing.T) {
	auth := &mockAuthAPI{
		LoginFn: func(context.Context, string, string) (LoginResult, error) {
			return LoginResult{Token: "jwt", Username: "Admin", Email: "admin@example.com", Role: "Admin"}, nil
		},
	}
	p, _ := newTestPortal(auth)

	state, dest, err := p.Login(context.Background(), "admin@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.StateAdmin, state)
	assert.Equal(t, DestAdminDash, dest)
}

func TestLoginFailureLeavesSessionAnonymous(t *testing.T) {
	wantErr := errors.New("invalid credentials")
	auth := &mockAuthAPI{
		LoginFn: func(context.Context, string, string) (LoginResult, error) {
			return LoginResult{}, wantErr
		},
	}
	p, _ := newTestPortal(auth)

	state, _, err := p.Login(context.Background(), "alice", "wrong")

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, session.StateAnonymous, state)
}

func TestLoginUsernameFallsBackToEmailPrefix(t *testing.T) {
	auth := &mockAuthAPI{
		LoginFn: func(context.Context, string, string) (LoginResult, error) {
			return LoginResult{Token: "jwt", Email: "bob@example.com"}, nil
		},
	}
	p, st := newTestPortal(auth)

	_, _, err := p.Login(context.Background(), "bob@example.com", "pw")

	require.NoError(t, err)
	v, _ := st.Get(session.KeyUsername)
	assert.Equal(t, "bob", v)
}

func TestStaleLoginResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	auth := &mockAuthAPI{
		LoginFn: func(_ context.Context, identifier, _ string) (LoginResult, error) {
			if identifier == "slow" {
				close(started)
				<-release
				return LoginResult{Token: "stale", Username: "slow"}, nil
			}
			return LoginResult{Token: "fresh", Username: "fast", Role: "Doctor"}, nil
		},
	}
	p, st := newTestPortal(auth)
	p.Registry().Put("fast", session.UserRecord{Role: "Doctor"})

	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		_, _, slowErr = p.Login(context.Background(), "slow", "pw")
	}()
	<-started

	_, _, err := p.Login(context.Background(), "fast", "pw")
	require.NoError(t, err)
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrStaleLogin)
	sess := session.Load(st)
	assert.Equal(t, "fast", sess.Username)
	assert.Equal(t, "fresh", sess.Token)
	assert.Equal(t, session.StateDoctor, session.Resolve(sess))
}

func TestRegisterSuccess(t *testing.T) {
	p, _ := newTestPortal(nil)

	dest := p.RegisterSuccess("drpat", session.UserRecord{Email: "drpat@example.com", Role: "Doctor"})

	assert.Equal(t, DestLogin, dest)
	rec, ok := p.Registry().Lookup("drpat")
	require.True(t, ok)
	assert.Equal(t, "Doctor", rec.Role)
}

func TestLogoutClearsSessionKeepsRegistry(t *testing.T) {
	p, st := newTestPortal(nil)
	p.Registry().Put("alice", session.UserRecord{Role: "Patient"})
	st.Set(session.KeyEmail, "alice@example.com")
	st.Set(session.KeyToken, "jwt")
	p.LoginSuccess("alice", false)

	dest := p.Logout()

	assert.Equal(t, DestHome, dest)
	assert.Equal(t, session.StateAnonymous, p.State())
	for _, key := range []string{
		session.KeyLoggedIn, session.KeyAdmin, session.KeyUsername,
		session.KeyEmail, session.KeyToken, session.KeyRole,
	} {
		_, ok := st.Get(key)
		assert.False(t, ok, "key %q should be gone", key)
	}
	_, ok := p.Registry().Lookup("alice")
	assert.True(t, ok)

	reloaded := session.LoadRegistry(st)
	_, ok = reloaded.Lookup("alice")
	assert.True(t, ok, "registry should survive logout in the store too")
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Portal)
		path  string
		want  string
	}{
		{name: "anonymous home", path: DestHome, want: DestHome},
		{name: "anonymous login", path: DestLogin, want: DestLogin},
		{name: "anonymous dashboard redirects to login", path: DestDashboard, want: DestLogin},
		{name: "anonymous admin dashboard redirects to login", path: DestAdminDash, want: DestLogin},
		{name: "unknown path lands home", path: "/nonsense", want: DestHome},
		{
			name:  "patient login view redirects to own dashboard",
			setup: func(p *Portal) { p.LoginSuccess("alice", false) },
			path:  DestLogin,
			want:  DestDashboard,
		},
		{
			name:  "patient cannot reach doctor dashboard",
			setup: func(p *Portal) { p.LoginSuccess("alice", false) },
			path:  DestDoctorDash,
			want:  DestDashboard,
		},
		{
			name: "doctor reaches doctor dashboard",
			setup: func(p *Portal) {
				p.Registry().Put("drpat", session.UserRecord{Role: "Doctor"})
				p.LoginSuccess("drpat", false)
			},
			path: DestDoctorDash,
			want: DestDoctorDash,
		},
		{
			name:  "admin redirected off patient dashboard",
			setup: func(p *Portal) { p.LoginSuccess("Admin", true) },
			path:  DestDashboard,
			want:  DestAdminDash,
		},
		{
			name:  "public pages stay public when authenticated",
			setup: func(p *Portal) { p.LoginSuccess("alice", false) },
			path:  DestContact,
			want:  DestContact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPortal(nil)
			if tt.setup != nil {
				tt.setup(p)
			}
			assert.Equal(t, tt.want, p.Route(tt.path))
		})
	}
}
