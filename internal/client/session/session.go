package session

import "strings"

// Store keys. Every flag below is a string: only the literal "true"
// counts as set, anything else (including a missing key) reads as false.
const (
	KeyLoggedIn = "isLoggedIn"
	KeyAdmin    = "isAdmin"
	KeyUsername = "username"
	KeyEmail    = "email"
	KeyToken    = "token"
	KeyRole     = "role"
)

// Role is the persisted role of a non-admin account.
type Role string

const (
	RoleNone    Role = ""
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleAdmin   Role = "Admin"
)

// ParseRole maps a stored value onto a known role. Unrecognised values
// read as RoleNone so a corrupted role key degrades the same way as a
// missing one. Unlike the boolean flags, which only match the literal
// "true", role values tolerate casing drift.
func ParseRole(s string) Role {
	switch {
	case strings.EqualFold(s, string(RolePatient)):
		return RolePatient
	case strings.EqualFold(s, string(RoleDoctor)):
		return RoleDoctor
	case strings.EqualFold(s, string(RoleAdmin)):
		return RoleAdmin
	default:
		return RoleNone
	}
}

// State is the routing state the portal is in. It is always derived from
// the store, never held independently.
type State int

const (
	StateAnonymous State = iota
	StatePatient
	StateDoctor
	StateAdmin
)

func (s State) String() string {
	switch s {
	case StatePatient:
		return "Patient"
	case StateDoctor:
		return "Doctor"
	case StateAdmin:
		return "Admin"
	default:
		return "Anonymous"
	}
}

// Session is the typed view of the auth-related keys. Serialization to
// store strings happens only at the edges, in Load and Save.
type Session struct {
	LoggedIn bool
	Admin    bool
	Username string
	Email    string
	Token    string
	Role     Role
}

// Load reads the session out of the store. Absent keys produce zero
// values; no key combination is an error.
func Load(st Store) Session {
	var s Session
	if v, _ := st.Get(KeyLoggedIn); v == "true" {
		s.LoggedIn = true
	}
	if v, _ := st.Get(KeyAdmin); v == "true" {
		s.Admin = true
	}
	s.Username, _ = st.Get(KeyUsername)
	s.Email, _ = st.Get(KeyEmail)
	s.Token, _ = st.Get(KeyToken)
	if v, ok := st.Get(KeyRole); ok {
		s.Role = ParseRole(v)
	}
	return s
}

// Save writes the session back to the store. Boolean flags are stored as
// "true"/"false"; a RoleNone role removes the role key rather than
// writing an empty string.
func (s Session) Save(st Store) {
	st.Set(KeyLoggedIn, boolString(s.LoggedIn))
	st.Set(KeyAdmin, boolString(s.Admin))
	st.Set(KeyUsername, s.Username)
	st.Set(KeyEmail, s.Email)
	st.Set(KeyToken, s.Token)
	if s.Role == RoleNone {
		st.Remove(KeyRole)
	} else {
		st.Set(KeyRole, string(s.Role))
	}
}

// Clear removes every session key from the store. The user registry is
// not a session key and survives.
func Clear(st Store) {
	st.Remove(KeyLoggedIn)
	st.Remove(KeyAdmin)
	st.Remove(KeyUsername)
	st.Remove(KeyEmail)
	st.Remove(KeyToken)
	st.Remove(KeyRole)
}

// Resolve computes the routing state from a session. Precedence: not
// logged in wins over everything, then the admin flag, then a doctor
// role, then patient as the default for any other authenticated user.
func Resolve(s Session) State {
	switch {
	case !s.LoggedIn:
		return StateAnonymous
	case s.Admin:
		return StateAdmin
	case s.Role == RoleDoctor:
		return StateDoctor
	default:
		return StatePatient
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
