// Package credentials provides CredentialSource implementations: an
// in-memory demo source for local/dev runs, and a Postgres-backed source
// for persistent account storage.
package credentials

import (
	"context"
	"sync"

	"github.com/oldrealm/aegisauth/internal/model"
)

// Source looks up the SRP verifier/salt and optional 2FA material for an
// account. Implementations are cheap to clone/share across connections.
type Source interface {
	Get(ctx context.Context, username string) (*model.Credentials, bool, error)
}

// InMemorySource is an in-process credential table for local runs without
// a database, mirroring the example credential provider the original
// project ships for its own demos. It starts empty; accounts are added
// with Put.
type InMemorySource struct {
	mu       sync.RWMutex
	accounts map[string]*model.Credentials
}

// NewInMemorySource creates an empty in-memory credential source.
func NewInMemorySource() *InMemorySource {
	return &InMemorySource{
		accounts: make(map[string]*model.Credentials),
	}
}

// Put installs or replaces credentials for an account. Intended for demo
// seeding and tests.
func (s *InMemorySource) Put(creds *model.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[creds.Username] = creds
}

// Get implements Source.
func (s *InMemorySource) Get(_ context.Context, username string) (*model.Credentials, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.accounts[username]
	return creds, ok, nil
}
