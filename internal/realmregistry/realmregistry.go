// Package realmregistry holds the concurrent ordered set of advertised
// realms with small-integer ID allocation in [0, 255].
package realmregistry

import (
	"sync"

	"github.com/oldrealm/aegisauth/internal/model"
)

const maxRealms = 256

// Registry is a thread-safe realm table. Allocation is linear-scan
// deterministic: it always returns the smallest free ID, rather than an
// O(1) bitmap scheme, so that tests that register several realms in
// sequence see reproducible IDs.
type Registry struct {
	mu     sync.Mutex
	realms map[uint8]*model.Realm
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		realms: make(map[uint8]*model.Realm),
	}
}

// allocateID returns the smallest ID in [0, 255] not currently assigned, or
// ok=false if all 256 are in use. Callers must hold r.mu.
func (r *Registry) allocateID() (uint8, bool) {
	for id := 0; id < maxRealms; id++ {
		if _, taken := r.realms[uint8(id)]; !taken {
			return uint8(id), true
		}
	}
	return 0, false
}

// Add allocates an ID and inserts a realm built from the given fields;
// CharCount starts at zero. Returns the assigned ID, and ok=false if the
// registry is full (256 live realms).
func (r *Registry) Add(name, address string, population float32, locked bool, flags, category, realmType, versionMajor, versionMinor, versionPatch uint8, versionBuild uint16) (uint8, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.allocateID()
	if !ok {
		return 0, false
	}

	r.realms[id] = &model.Realm{
		ID:           id,
		Name:         name,
		Address:      address,
		Population:   population,
		Locked:       locked,
		Flags:        flags,
		Category:     category,
		RealmType:    realmType,
		VersionMajor: versionMajor,
		VersionMinor: versionMinor,
		VersionPatch: versionPatch,
		VersionBuild: versionBuild,
	}
	return id, true
}

// Remove deletes the realm with the given ID; a no-op if absent.
func (r *Registry) Remove(id uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.realms, id)
}

// Snapshot returns a point-in-time copy of all live realms, in no
// particular order (the realm-list wire format does not expose ordering).
func (r *Registry) Snapshot() []model.Realm {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Realm, 0, len(r.realms))
	for _, realm := range r.realms {
		out = append(out, *realm)
	}
	return out
}
