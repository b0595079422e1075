package paging

import (
	"fmt"
	"sync"
)

// Mounts is the host mount-point contract. The shell attaches one host
// container; the allocator creates one mount per physical page inside it.
type Mounts interface {
	EnsureMount(id string) error
	Exists(id string) bool
	Remove(id string)
}

// HostMounts is the standard registry backed by the shell's host container.
// EnsureMount fails while no host is attached, which surfaces as a missing
// mount point to the allocator.
type HostMounts struct {
	mu   sync.Mutex
	host string
	ids  map[string]bool
}

// NewHostMounts creates an empty registry with no host attached.
func NewHostMounts() *HostMounts {
	return &HostMounts{ids: map[string]bool{}}
}

// SetHost attaches the shell's host container id.
func (m *HostMounts) SetHost(rootID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.host = rootID
}

// Host returns the attached host container id, or "".
func (m *HostMounts) Host() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.host
}

// EnsureMount creates the mount point if it does not exist yet.
func (m *HostMounts) EnsureMount(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.host == "" {
		return fmt.Errorf("ensure mount %q: no host container attached", id)
	}
	m.ids[id] = true
	return nil
}

// Exists reports whether a mount point is registered.
func (m *HostMounts) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[id]
}

// Remove drops a mount point.
func (m *HostMounts) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, id)
}
