// Package sessionstore holds the concurrent mapping from account name to
// post-SRP server state, shared between the auth engine and the
// inter-service broker.
package sessionstore

import (
	"sync"

	"github.com/oldrealm/aegisauth/internal/srp6"
)

// Store is a thread-safe account -> *srp6.Server map. Safe for concurrent
// use from any number of connection tasks.
type Store struct {
	sessions sync.Map // map[string]*srp6.Server
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Put unconditionally inserts server, overwriting any existing entry for
// the same account.
func (s *Store) Put(account string, server *srp6.Server) {
	s.sessions.Store(account, server)
}

// Get returns the stored server state for account, and whether it was
// present.
func (s *Store) Get(account string) (*srp6.Server, bool) {
	v, ok := s.sessions.Load(account)
	if !ok {
		return nil, false
	}
	return v.(*srp6.Server), true
}

// Remove deletes the entry for account, if any.
func (s *Store) Remove(account string) {
	s.sessions.Delete(account)
}

// Count returns the number of live entries. Intended for diagnostics.
func (s *Store) Count() int {
	count := 0
	s.sessions.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
