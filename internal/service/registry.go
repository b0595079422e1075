package service

import (
	"sync"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
)

// ─────────────────────────────────────────────────────────────
// DebugRegistry — session-owned devtools exposure
// ─────────────────────────────────────────────────────────────

// DebugRegistry is the explicit, namespaced debug accessor for rendering
// backends. Surfaces register on creation and deregister on destruction;
// devtools (app bindings, MCP tools) read from here instead of any
// process-global state. Owned by one session, so its lifetime is bounded.
type DebugRegistry struct {
	mu       sync.Mutex
	order    []string
	surfaces map[string]*canvas.Surface
}

// NewDebugRegistry creates an empty registry.
func NewDebugRegistry() *DebugRegistry {
	return &DebugRegistry{surfaces: map[string]*canvas.Surface{}}
}

// SurfaceCreated registers a surface. Implements paging.SurfaceObserver.
func (r *DebugRegistry) SurfaceCreated(s *canvas.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surfaces[s.ID()]; !ok {
		r.order = append(r.order, s.ID())
	}
	r.surfaces[s.ID()] = s
}

// SurfaceDestroyed deregisters a surface by id.
func (r *DebugRegistry) SurfaceDestroyed(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surfaces[id]; !ok {
		return
	}
	delete(r.surfaces, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Infos snapshots every live surface's backend info in creation order.
func (r *DebugRegistry) Infos() []canvas.BackendInfo {
	r.mu.Lock()
	surfaces := make([]*canvas.Surface, 0, len(r.order))
	for _, id := range r.order {
		surfaces = append(surfaces, r.surfaces[id])
	}
	r.mu.Unlock()

	infos := make([]canvas.BackendInfo, len(surfaces))
	for i, s := range surfaces {
		infos[i] = s.DebugInfo()
	}
	return infos
}

// Len returns the number of registered surfaces.
func (r *DebugRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.surfaces)
}
