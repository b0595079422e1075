// Package paging turns logical lessons into physical canvas surfaces: one
// primary surface per lesson plus one per overflow page, each initialized
// sequentially and retained in a single flat ordered list.
package paging

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// MountID is the canonical mount-point id for one lesson page.
func MountID(lesson, page int) string {
	return fmt.Sprintf("lesson-%d-page-%d", lesson, page)
}

// SurfaceObserver is notified as surfaces come and go. The session's debug
// registry implements it.
type SurfaceObserver interface {
	SurfaceCreated(s *canvas.Surface)
	SurfaceDestroyed(id string)
}

// Options configure a PageAllocator.
type Options struct {
	Mounts  Mounts
	Factory domain.TemplateFactory

	// Observer may be nil.
	Observer SurfaceObserver

	// DebugOutlines is passed through to every created surface.
	DebugOutlines bool
}

// PageAllocator creates and tears down the surfaces of an editing session.
// Creation is sequential: each surface's Init is awaited before the next
// starts, and a creation run cannot be cancelled halfway beyond context
// propagation into Init.
type PageAllocator struct {
	opts Options

	mu       sync.Mutex
	surfaces []*canvas.Surface
}

// NewPageAllocator creates an allocator with no surfaces.
func NewPageAllocator(opts Options) *PageAllocator {
	return &PageAllocator{opts: opts}
}

// CreateLessonCanvases destroys any previously created surfaces, then
// builds the canvases for lessons 1..lessonCount. Each lesson gets a
// primary surface; when its template reports multiple pages the primary is
// pinned to page 1 and every further page gets a new mount, a new surface,
// and a new template instance pinned to that page.
//
// Failure policy: a primary-page failure aborts the run (surfaces built so
// far are destroyed) and the error propagates; an overflow-page failure is
// logged, that page is skipped, and the loop continues.
func (p *PageAllocator) CreateLessonCanvases(ctx context.Context, lessonCount int) ([]*canvas.Surface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyAllLocked()

	if lessonCount < 0 {
		return nil, fmt.Errorf("create lesson canvases: negative lesson count %d", lessonCount)
	}
	if p.opts.Mounts == nil || p.opts.Factory == nil {
		return nil, fmt.Errorf("create lesson canvases: allocator missing mounts or template factory")
	}

	for lesson := 1; lesson <= lessonCount; lesson++ {
		_, tmpl, err := p.createPageLocked(ctx, lesson, 1)
		if err != nil {
			p.destroyAllLocked()
			return nil, fmt.Errorf("create canvases for lesson %d: %w", lesson, err)
		}

		if !tmpl.HasMultiplePages() {
			continue
		}
		if err := tmpl.SetPage(1); err != nil {
			log.Printf("paging: pin lesson %d primary to page 1: %v", lesson, err)
		}
		pageCount := tmpl.PageCount()
		for page := 2; page <= pageCount; page++ {
			if _, _, err := p.createPageLocked(ctx, lesson, page); err != nil {
				log.Printf("paging: skipping lesson %d page %d: %v", lesson, page, err)
				continue
			}
		}
	}

	return append([]*canvas.Surface(nil), p.surfaces...), nil
}

// createPageLocked builds one physical page: mount, surface, and a fresh
// template instance. Overflow pages (page > 1) are re-initialized from
// scratch and then pinned to their page.
func (p *PageAllocator) createPageLocked(ctx context.Context, lesson, page int) (*canvas.Surface, domain.LessonLayoutTemplate, error) {
	mountID := MountID(lesson, page)
	if err := p.opts.Mounts.EnsureMount(mountID); err != nil {
		return nil, nil, fmt.Errorf("mount page %d: %w", page, err)
	}

	s := canvas.NewSurface(canvas.Options{
		Lesson:        lesson,
		Page:          page,
		MountID:       mountID,
		Mounts:        p.opts.Mounts,
		DebugOutlines: p.opts.DebugOutlines,
	})
	if err := s.Init(ctx); err != nil {
		p.opts.Mounts.Remove(mountID)
		return nil, nil, err
	}

	tmpl := p.opts.Factory(lesson)
	if tmpl == nil {
		s.Destroy()
		p.opts.Mounts.Remove(mountID)
		return nil, nil, fmt.Errorf("template factory returned nil for lesson %d", lesson)
	}
	if err := tmpl.Initialize(ctx, s); err != nil {
		s.Destroy()
		p.opts.Mounts.Remove(mountID)
		return nil, nil, fmt.Errorf("initialize template: %w", err)
	}
	if page > 1 {
		if err := tmpl.SetPage(page); err != nil {
			s.Destroy()
			p.opts.Mounts.Remove(mountID)
			return nil, nil, fmt.Errorf("pin template to page %d: %w", page, err)
		}
	}

	p.surfaces = append(p.surfaces, s)
	if p.opts.Observer != nil {
		p.opts.Observer.SurfaceCreated(s)
	}
	return s, tmpl, nil
}

// Surfaces returns the flat ordered surface list.
func (p *PageAllocator) Surfaces() []*canvas.Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*canvas.Surface(nil), p.surfaces...)
}

// SurfaceByID returns a surface by id, or nil.
func (p *PageAllocator) SurfaceByID(id string) *canvas.Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.surfaces {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

// Paging groups the surface list per lesson, in creation order.
func (p *PageAllocator) Paging() []domain.LessonPaging {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []domain.LessonPaging
	index := map[int]int{}
	for _, s := range p.surfaces {
		i, ok := index[s.Lesson()]
		if !ok {
			i = len(out)
			index[s.Lesson()] = i
			out = append(out, domain.LessonPaging{Lesson: s.Lesson()})
		}
		out[i].Pages = append(out[i].Pages, domain.PageRef{Page: s.Page(), SurfaceID: s.ID()})
	}
	return out
}

// DestroyAll tears down every surface and its mount. Idempotent.
func (p *PageAllocator) DestroyAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyAllLocked()
}

func (p *PageAllocator) destroyAllLocked() {
	for _, s := range p.surfaces {
		s.Destroy()
		p.opts.Mounts.Remove(s.MountID())
		if p.opts.Observer != nil {
			p.opts.Observer.SurfaceDestroyed(s.ID())
		}
	}
	p.surfaces = nil
}
