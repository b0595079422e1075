package domain

import "context"

// LayoutTarget is the surface-side sink a lesson template paints into.
// Implemented by the canvas surface; templates never see layers directly.
type LayoutTarget interface {
	RenderLayoutAsBackground(blocks []LayoutBlock) error
}

// LessonLayoutTemplate builds the protected pedagogical layout for one
// lesson. A template instance is single-use: the page allocator constructs
// a fresh one per physical page rather than asking one instance to render
// sub-ranges into multiple targets.
type LessonLayoutTemplate interface {
	// Initialize computes the lesson's content and paints the first page
	// into the target. It must be called before any other method.
	Initialize(ctx context.Context, target LayoutTarget) error

	// HasMultiplePages reports whether the lesson overflows one page.
	HasMultiplePages() bool

	// PageCount returns the number of physical pages the lesson needs.
	PageCount() int

	// SetPage restricts rendering to page n only and repaints the target.
	SetPage(n int) error
}

// TemplateFactory returns a fresh template instance for a lesson index.
type TemplateFactory func(lesson int) LessonLayoutTemplate
