// Package canvas implements the protected layout canvas: fixed-size page
// surfaces carrying exactly two ordered layers, a machine-generated layout
// layer ordinary tools can never erase, and a free drawing layer above it.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/units"
)

// Fixed page size in device-independent pixels (A4 portrait at 96 DPI).
const (
	PageWidth  = 794
	PageHeight = 1123
)

// ErrNotInitialized is returned by operations that need a live rendering
// backend, most visibly image export on a surface that never ran Init.
var ErrNotInitialized = errors.New("surface not initialized")

// MountLookup reports whether a host mount point exists. Init fails when
// the surface's mount is absent; mounts are owned by the page allocator.
type MountLookup interface {
	Exists(id string) bool
}

// Options configure a surface at construction.
type Options struct {
	Lesson  int
	Page    int
	MountID string
	Mounts  MountLookup

	// DebugOutlines strokes node and page bounds on export.
	DebugOutlines bool
}

// Backend owns the raster resources of one surface. It exists between Init
// and Destroy; dropping a surface without Destroy leaks the pixel buffer
// until the surface itself is collected.
type Backend struct {
	id        string
	width     int
	height    int
	createdAt time.Time
	dc        *gg.Context
}

// BackendInfo is the read-only debug view of a surface and its backend,
// published through the session's debug registry.
type BackendInfo struct {
	SurfaceID    string    `json:"surfaceId"`
	BackendID    string    `json:"backendId"`
	Lesson       int       `json:"lesson"`
	Page         int       `json:"page"`
	MountID      string    `json:"mountId"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `json:"createdAt"`
	LayoutNodes  int       `json:"layoutNodes"`
	DrawingNodes int       `json:"drawingNodes"`
	Protected    bool      `json:"protected"`
}

// Surface is one physical rendering target sized to a fixed page. Surfaces
// are created by the page allocator, never shared between lessons, and must
// be destroyed explicitly.
type Surface struct {
	id       string
	opts     Options
	renderer *LayoutRenderer

	mu           sync.Mutex
	backend      *Backend
	layout       *Layer
	drawing      *Layer
	margins      domain.MarginSpec
	storedBlocks []domain.LayoutBlock
}

// NewSurface creates an uninitialized surface for one lesson page.
func NewSurface(opts Options) *Surface {
	if opts.Lesson <= 0 {
		opts.Lesson = 1
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	return &Surface{
		id:       uuid.New().String(),
		opts:     opts,
		renderer: NewLayoutRenderer(PageWidth, PageHeight),
	}
}

func (s *Surface) ID() string      { return s.id }
func (s *Surface) Lesson() int     { return s.opts.Lesson }
func (s *Surface) Page() int       { return s.opts.Page }
func (s *Surface) MountID() string { return s.opts.MountID }

// Init allocates the rendering backend at fixed page dimensions and creates
// the two layers in fixed z-order, layout below drawing. It fails when the
// host mount point is missing or the surface was already initialized;
// surface creation is on the critical path and errors propagate.
func (s *Surface) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("init surface: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != nil {
		return fmt.Errorf("init surface %s: already initialized", s.id)
	}
	if s.opts.Mounts == nil || !s.opts.Mounts.Exists(s.opts.MountID) {
		return fmt.Errorf("init surface lesson %d page %d: mount point %q not found",
			s.opts.Lesson, s.opts.Page, s.opts.MountID)
	}

	s.backend = &Backend{
		id:        uuid.New().String(),
		width:     PageWidth,
		height:    PageHeight,
		createdAt: time.Now(),
		dc:        gg.NewContext(PageWidth, PageHeight),
	}
	s.layout = NewLayer("layout")
	s.drawing = NewLayer("drawing")
	return nil
}

// IsInitialized reports whether the surface has a live backend.
func (s *Surface) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend != nil
}

// RenderLayoutAsBackground clears only the layout layer and repaints the
// protected layout from the given blocks, storing a copy of the block list
// so a destructive reset can restore it. The drawing layer is untouched.
func (s *Surface) RenderLayoutAsBackground(blocks []domain.LayoutBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return fmt.Errorf("render layout: %w", ErrNotInitialized)
	}
	s.renderer.Paint(s.layout, blocks)
	s.storedBlocks = domain.CloneBlocks(blocks)
	return nil
}

// ClearCanvas removes all children of the drawing layer only. The layout
// layer is structurally untouched.
func (s *Surface) ClearCanvas() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawing == nil {
		log.Printf("canvas: clear on uninitialized surface %s skipped", s.id)
		return
	}
	s.drawing.Clear()
}

// ResetAll is the destructive reset: it wipes both layers, recreates them,
// and restores the protected layout from the stored block list when one was
// rendered. It is the only operation allowed to erase the layout layer and
// is reachable only through the session's maintenance path; drawing tools
// receive a view without it.
func (s *Surface) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return fmt.Errorf("reset surface: %w", ErrNotInitialized)
	}
	s.layout = NewLayer("layout")
	s.drawing = NewLayer("drawing")
	if len(s.storedBlocks) > 0 {
		s.renderer.Paint(s.layout, s.storedBlocks)
	}
	return nil
}

// UpdateMargins converts the margin spec to pixels, stores it, and redraws the
// margin guide lines. Only previously drawn guide nodes are removed; the
// rest of the layout layer is not disturbed.
func (s *Surface) UpdateMargins(spec domain.MarginSpec) error {
	px, err := units.ConvertMargins(spec, domain.UnitPX)
	if err != nil {
		return fmt.Errorf("update margins: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.margins = px
	if s.layout == nil {
		log.Printf("canvas: margins stored for surface %s before init", s.id)
		return nil
	}
	s.layout.RemoveTag(units.GuideTag)
	for _, n := range units.GuideNodes(px, PageWidth, PageHeight) {
		s.layout.Add(n)
	}
	return nil
}

// Margins returns the current margin state in pixels.
func (s *Surface) Margins() domain.MarginSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.margins
}

// IsCoordinateEditable answers the protection hit-test for a point. With no
// protected layout every coordinate is editable; otherwise the first area
// containing the point decides, and a point in no area is not editable.
func (s *Surface) IsCoordinateEditable(x, y float64) domain.Editability {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.storedBlocks) == 0 {
		return domain.Editability{Editable: true}
	}
	return s.renderer.Hit(s.storedBlocks, x, y)
}

// IsLayoutProtected reports whether a protected layout is currently live on
// this surface. Always false after Destroy.
func (s *Surface) IsLayoutProtected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend != nil && len(s.storedBlocks) > 0
}

// DrawingLayer returns the drawing layer, the only container handed to
// tools and commands. Nil before Init and after Destroy.
func (s *Surface) DrawingLayer() *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing
}

// LayoutBlocks returns a copy of the protected block list, or nil when
// no layout has been rendered.
func (s *Surface) LayoutBlocks() []domain.LayoutBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneBlocks(s.storedBlocks)
}

// LayoutNodes returns the layout layer's nodes in paint order.
func (s *Surface) LayoutNodes() []*domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return nil
	}
	return s.layout.Nodes()
}

// LayoutNodeIDs returns the layout layer's node ids in paint order.
func (s *Surface) LayoutNodeIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return nil
	}
	return s.layout.NodeIDs()
}

// DrawingSnapshot serializes the drawing layer's nodes for journaling.
func (s *Surface) DrawingSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawing == nil {
		return nil, fmt.Errorf("snapshot drawing: %w", ErrNotInitialized)
	}
	nodes := s.drawing.Nodes()
	if nodes == nil {
		nodes = []*domain.Node{}
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("snapshot drawing: %w", err)
	}
	return data, nil
}

// ExportPNG renders the full surface, layout under drawing, to a single
// PNG image. Fails with an explicit error if the surface was never
// initialized.
func (s *Surface) ExportPNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil, fmt.Errorf("export canvas: %w", ErrNotInitialized)
	}
	renderLayers(s.backend.dc, []*Layer{s.layout, s.drawing}, s.opts.DebugOutlines)

	var buf bytes.Buffer
	if err := s.backend.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("export canvas: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Destroy releases the rendering backend and clears all in-memory state.
// Safe to call multiple times; there is no automatic reclamation, so every
// created surface must pass through here.
func (s *Surface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backend = nil
	s.layout = nil
	s.drawing = nil
	s.storedBlocks = nil
	s.margins = domain.MarginSpec{}
}

// DebugInfo snapshots the surface for the debug registry.
func (s *Surface) DebugInfo() BackendInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := BackendInfo{
		SurfaceID: s.id,
		Lesson:    s.opts.Lesson,
		Page:      s.opts.Page,
		MountID:   s.opts.MountID,
		Protected: s.backend != nil && len(s.storedBlocks) > 0,
	}
	if s.backend != nil {
		info.BackendID = s.backend.id
		info.Width = s.backend.width
		info.Height = s.backend.height
		info.CreatedAt = s.backend.createdAt
	}
	if s.layout != nil {
		info.LayoutNodes = s.layout.Len()
	}
	if s.drawing != nil {
		info.DrawingNodes = s.drawing.Len()
	}
	return info
}
