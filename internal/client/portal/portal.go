// Package portal drives the client routing state machine: which view an
// authenticated or anonymous user lands on, and how auth events move the
// session between states.
package portal

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teameicu/careportal/internal/client/session"
)

// ErrStaleLogin reports a login response that arrived after a newer
// attempt had already started. The session is left untouched.
var ErrStaleLogin = errors.New("login superseded by a newer attempt")

// Destinations for each routing state.
const (
	DestHome           = "/"
	DestLogin          = "/login"
	DestRegister       = "/register"
	DestDashboard      = "/dashboard"
	DestDoctorDash     = "/doctor/dashboard"
	DestAdminDash      = "/admin/dashboard"
	DestAbout          = "/aboutus"
	DestContact        = "/contactus"
	DestForgotPassword = "/forgot-password"
)

// LoginResult is what the portal needs back from a login call.
type LoginResult struct {
	Token    string
	Username string
	Email    string
	Role     string
}

// AuthAPI performs the credential exchange with the server.
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (LoginResult, error)
}

// Portal owns the session store and registry and exposes the auth event
// handlers the views call.
type Portal struct {
	store session.Store
	reg   *session.Registry
	auth  AuthAPI
	log   *zap.Logger
	seq   atomic.Int64
}

// New builds a portal over the given store. The registry is loaded once
// and shared for the portal's lifetime.
func New(store session.Store, auth AuthAPI, log *zap.Logger) *Portal {
	return &Portal{store: store, reg: session.LoadRegistry(store), auth: auth, log: log}
}

// Session returns the current typed session.
func (p *Portal) Session() session.Session {
	return session.Load(p.store)
}

// State derives the current routing state from the store.
func (p *Portal) State() session.State {
	return session.Resolve(session.Load(p.store))
}

// Registry exposes the username directory for registration flows.
func (p *Portal) Registry() *session.Registry {
	return p.reg
}

// Destination maps a state to the view it lands on.
func Destination(st session.State) string {
	switch st {
	case session.StatePatient:
		return DestDashboard
	case session.StateDoctor:
		return DestDoctorDash
	case session.StateAdmin:
		return DestAdminDash
	default:
		return DestHome
	}
}

// Login runs the credential exchange and, on success, applies the login
// to the session. Responses that lose the race to a newer attempt are
// discarded with ErrStaleLogin and leave the session as the newer
// attempt wrote it.
func (p *Portal) Login(ctx context.Context, identifier, password string) (session.State, string, error) {
	seq := p.seq.Add(1)

	res, err := p.auth.Login(ctx, identifier, password)
	if err != nil {
		return p.State(), "", err
	}
	if seq != p.seq.Load() {
		p.log.Warn("discarding stale login response", zap.String("identifier", identifier))
		return p.State(), "", ErrStaleLogin
	}

	username := res.Username
	if username == "" {
		username = identifier
		if at := strings.IndexByte(identifier, '@'); at > 0 {
			username = identifier[:at]
		}
	}

	p.store.Set(session.KeyEmail, res.Email)
	p.store.Set(session.KeyToken, res.Token)

	admin := strings.EqualFold(res.Role, string(session.RoleAdmin))
	st, dest := p.LoginSuccess(username, admin)
	return st, dest, nil
}

// LoginSuccess applies a successful authentication to the session:
// flags and username are written, the role is resolved from the
// registry with the previously stored role as fallback, and the
// resulting state picks the destination.
func (p *Portal) LoginSuccess(username string, admin bool) (session.State, string) {
	p.store.Set(session.KeyLoggedIn, "true")
	if admin {
		p.store.Set(session.KeyAdmin, "true")
	} else {
		p.store.Set(session.KeyAdmin, "false")
	}
	p.store.Set(session.KeyUsername, username)

	if role := session.ResolveRole(p.reg, p.store, username); role != session.RoleNone {
		p.store.Set(session.KeyRole, string(role))
	} else {
		p.store.Remove(session.KeyRole)
	}

	st := p.State()
	p.log.Info("login applied",
		zap.String("username", username),
		zap.String("state", st.String()))
	return st, Destination(st)
}

// RegisterSuccess records a freshly registered account in the registry
// and sends the user to the login view.
func (p *Portal) RegisterSuccess(username string, rec session.UserRecord) string {
	p.reg.Put(username, rec)
	return DestLogin
}

// Logout clears every session key and returns to the landing view. The
// registry survives.
func (p *Portal) Logout() string {
	session.Clear(p.store)
	p.log.Info("logged out")
	return DestHome
}

// Route guards a requested path. Authenticated users asking for the
// login or register views are sent to their own dashboard; a dashboard
// request in the wrong state redirects to login when anonymous and to
// the caller's own dashboard otherwise. Unknown paths land on home.
func (p *Portal) Route(path string) string {
	st := p.State()

	var need session.State
	switch path {
	case DestHome, DestAbout, DestContact, DestForgotPassword:
		return path
	case DestLogin, DestRegister:
		if st != session.StateAnonymous {
			return Destination(st)
		}
		return path
	case DestDashboard:
		need = session.StatePatient
	case DestDoctorDash:
		need = session.StateDoctor
	case DestAdminDash:
		need = session.StateAdmin
	default:
		return DestHome
	}

	if st == need {
		return path
	}
	if st == session.StateAnonymous {
		return DestLogin
	}
	return Destination(st)
}
