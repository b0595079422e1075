package canvas

import (
	"sync"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// Layer is an ordered list of scene nodes. A surface owns exactly two:
// the protected layout layer below and the user drawing layer above.
// Paint order is list order, so index doubles as z-order.
type Layer struct {
	name string

	mu    sync.Mutex
	nodes []*domain.Node
}

// NewLayer creates an empty named layer.
func NewLayer(name string) *Layer {
	return &Layer{name: name}
}

// Name returns the layer's name ("layout" or "drawing").
func (l *Layer) Name() string { return l.name }

// Add appends a node on top of the layer.
func (l *Layer) Add(n *domain.Node) {
	if n == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = append(l.nodes, n)
}

// InsertAt places a node at index i, clamped to the valid range. Used by
// history to restore a removed node at its original z-order.
func (l *Layer) InsertAt(i int, n *domain.Node) {
	if n == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 {
		i = 0
	}
	if i > len(l.nodes) {
		i = len(l.nodes)
	}
	l.nodes = append(l.nodes, nil)
	copy(l.nodes[i+1:], l.nodes[i:])
	l.nodes[i] = n
}

// Remove deletes the node with the given id, reporting whether it existed.
func (l *Layer) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, n := range l.nodes {
		if n.ID == id {
			l.nodes = append(l.nodes[:i], l.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveTag deletes every node carrying the tag, returning how many went.
func (l *Layer) RemoveTag(tag string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.nodes[:0]
	removed := 0
	for _, n := range l.nodes {
		if n.Tag == tag {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	l.nodes = kept
	return removed
}

// Node returns the node with the given id, or nil.
func (l *Layer) Node(id string) *domain.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range l.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// IndexOf returns the z-order index of a node id, or -1.
func (l *Layer) IndexOf(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, n := range l.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Nodes returns the nodes in paint order. The slice is a copy; the nodes
// are shared.
func (l *Layer) Nodes() []*domain.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*domain.Node(nil), l.nodes...)
}

// NodeIDs returns the ids of all nodes in paint order.
func (l *Layer) NodeIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, len(l.nodes))
	for i, n := range l.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Len returns the node count.
func (l *Layer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}

// Clear removes every node.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = nil
}
