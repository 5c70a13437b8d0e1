// Package session holds the authenticated identity shared by all BugBoard
// clients. One Store instance lives for the process; clients read it at the
// start of every authenticated call and only login/logout write it.
package session

import (
	"strings"
	"sync"

	"github.com/bugboard/go-bugboard/token"
)

// snapshot is the immutable value behind the store. Set and Clear replace the
// whole struct, so readers never observe a half-written identity.
type snapshot struct {
	userID int64  // 0 means unset
	role   string // "ADMIN" or "USER"
	token  string // always normalized "Bearer <jwt>"
	email  string // display only
}

// Store is the process-wide session holder. The zero value is an empty,
// logged-out session ready for use. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	snap snapshot
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Set installs a freshly authenticated identity. The token is normalized to
// the "Bearer <raw>" form exactly once, whatever form the caller passes.
func (s *Store) Set(userID int64, role, tok, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snapshot{
		userID: userID,
		role:   role,
		token:  token.Normalize(tok),
		email:  email,
	}
}

// Clear wipes the session; IsLoggedIn reports false afterwards. Called on
// logout and whenever a caller observes an Unauthorized outcome.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snapshot{}
}

// UserID returns the authenticated user id, with ok=false when logged out.
func (s *Store) UserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.userID, s.snap.userID != 0
}

// Role returns the session role ("ADMIN" or "USER"), empty when logged out.
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.role
}

// Email returns the display email captured at login.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.email
}

// BearerToken returns the normalized Authorization value, with ok=false when
// no token is held. Callers must treat ok=false as an unauthorized condition
// and skip the network round trip entirely.
func (s *Store) BearerToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.token, s.snap.token != ""
}

// IsAdmin reports whether the session role is ADMIN, case-insensitively.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.EqualFold(s.snap.role, "ADMIN")
}

// IsLoggedIn reports whether both a token and a user id are present.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.token != "" && s.snap.userID != 0
}
