package session

import (
	"encoding/json"
	"sync"
)

// KeyRegistry is the store key the user registry serializes under.
const KeyRegistry = "app_users_v1"

// UserRecord is what the client remembers about an account it has seen
// register, keyed by username in the registry.
type UserRecord struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	Hospital    string `json:"hospital,omitempty"`
	Designation string `json:"designation,omitempty"`
	PatientID   string `json:"patient_id,omitempty"`
}

// Registry is the client-side username directory built up from
// registration responses. It lives in the same store as the session but
// is not part of it: logout leaves it intact.
type Registry struct {
	store Store
	mu    sync.Mutex
	users map[string]UserRecord
}

// LoadRegistry reads the registry out of the store. A missing or
// malformed registry key yields an empty registry.
func LoadRegistry(st Store) *Registry {
	r := &Registry{store: st, users: make(map[string]UserRecord)}
	raw, ok := st.Get(KeyRegistry)
	if !ok {
		return r
	}
	var users map[string]UserRecord
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return r
	}
	r.users = users
	return r
}

// Lookup returns the record registered under username, if any.
func (r *Registry) Lookup(username string) (UserRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.users[username]
	return rec, ok
}

// Put records a registered user and persists the registry. The write is
// best-effort like every store write.
func (r *Registry) Put(username string, rec UserRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[username] = rec
	raw, err := json.Marshal(r.users)
	if err != nil {
		return
	}
	r.store.Set(KeyRegistry, string(raw))
}

// ResolveRole picks the role to persist at login time. The registry
// entry for the username wins, then any role already in the store, then
// no role at all.
func ResolveRole(r *Registry, st Store, username string) Role {
	if rec, ok := r.Lookup(username); ok {
		if role := ParseRole(rec.Role); role != RoleNone {
			return role
		}
	}
	if v, ok := st.Get(KeyRole); ok {
		return ParseRole(v)
	}
	return RoleNone
}
