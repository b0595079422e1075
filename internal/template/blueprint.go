// Package template provides the built-in lesson blueprint: the
// machine-generated pedagogical layout the engine protects. A blueprint
// instance is single-use, built per physical page by the allocator's
// factory, and paints header, program, content, assignment and footer
// blocks into the surface it is initialized against.
package template

import (
	"context"
	"fmt"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// Page geometry in device-independent pixels (A4 portrait at 96 DPI).
const (
	pageWidth  = 794
	pageHeight = 1123

	edgeMargin = 57 // 15 mm structural margin around every block

	headerHeight     = 90
	programHeight    = 140
	assignmentHeight = 150
	footerHeight     = 50
	blockGap         = 16

	// One content row per topic. Rows shorter than this would clip the
	// row label, so capacity is measured in whole rows.
	contentRowHeight = 96
)

// ContentSource supplies the teaching topics of a lesson. The number of
// topics drives the physical page count.
type ContentSource interface {
	Topics(lesson int) []string
}

// StaticSource is the default content source: a fixed set of activity
// topics per lesson, with optional per-lesson overrides.
type StaticSource struct {
	// PerLesson overrides the generated topics for specific lessons.
	PerLesson map[int][]string

	// TopicCount is the generated topic count when no override exists.
	// Zero means the default of 5.
	TopicCount int
}

func (s StaticSource) Topics(lesson int) []string {
	if t, ok := s.PerLesson[lesson]; ok {
		return t
	}
	n := s.TopicCount
	if n <= 0 {
		n = 5
	}
	topics := make([]string, n)
	for i := range topics {
		topics[i] = fmt.Sprintf("Activity %d", i+1)
	}
	return topics
}

// Factory returns a TemplateFactory producing one fresh blueprint per
// call, matching the allocator's one-instance-per-page contract.
func Factory(src ContentSource) domain.TemplateFactory {
	return func(lesson int) domain.LessonLayoutTemplate {
		return New(lesson, src)
	}
}

// Blueprint lays out one lesson across as many pages as its content
// needs. It renders page 1 on Initialize and repaints on SetPage.
type Blueprint struct {
	lesson int
	src    ContentSource

	target domain.LayoutTarget
	topics []string
	pages  int
	page   int
}

// New creates an uninitialized blueprint for a lesson.
func New(lesson int, src ContentSource) *Blueprint {
	return &Blueprint{lesson: lesson, src: src}
}

// Initialize computes the lesson's content, derives the page count, and
// paints page 1 into the target.
func (b *Blueprint) Initialize(ctx context.Context, target domain.LayoutTarget) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("initialize blueprint: %w", err)
	}
	if target == nil {
		return fmt.Errorf("initialize blueprint lesson %d: nil layout target", b.lesson)
	}
	if b.src == nil {
		return fmt.Errorf("initialize blueprint lesson %d: nil content source", b.lesson)
	}

	b.target = target
	b.topics = append([]string(nil), b.src.Topics(b.lesson)...)
	b.pages = pageCountFor(len(b.topics))
	b.page = 1
	return target.RenderLayoutAsBackground(b.blocksForPage(1))
}

// HasMultiplePages reports whether the lesson overflows one page.
func (b *Blueprint) HasMultiplePages() bool { return b.pages > 1 }

// PageCount returns the number of physical pages the lesson needs.
func (b *Blueprint) PageCount() int {
	if b.pages == 0 {
		return 1
	}
	return b.pages
}

// SetPage restricts the blueprint to page n and repaints the target with
// only that page's blocks.
func (b *Blueprint) SetPage(n int) error {
	if b.target == nil {
		return fmt.Errorf("set page %d: blueprint not initialized", n)
	}
	if n < 1 || n > b.pages {
		return fmt.Errorf("set page %d: lesson %d has pages 1..%d", n, b.lesson, b.pages)
	}
	b.page = n
	return b.target.RenderLayoutAsBackground(b.blocksForPage(n))
}

// primaryCapacity and overflowCapacity are the content rows that fit on
// page 1 (which also carries program and assignment blocks) and on an
// overflow page (header, content and footer only).
func primaryCapacity() int {
	h := pageHeight - 2*edgeMargin - headerHeight - programHeight -
		assignmentHeight - footerHeight - 4*blockGap
	return h / contentRowHeight
}

func overflowCapacity() int {
	h := pageHeight - 2*edgeMargin - headerHeight - footerHeight - 2*blockGap
	return h / contentRowHeight
}

func pageCountFor(topics int) int {
	cap1 := primaryCapacity()
	if topics <= cap1 {
		return 1
	}
	capN := overflowCapacity()
	rest := topics - cap1
	return 1 + (rest+capN-1)/capN
}

// topicRange returns the half-open topic index range shown on a page.
func topicRange(page, topics int) (int, int) {
	cap1 := primaryCapacity()
	if page == 1 {
		return 0, min(cap1, topics)
	}
	capN := overflowCapacity()
	start := cap1 + (page-2)*capN
	return min(start, topics), min(start+capN, topics)
}

// blocksForPage builds the protected block list for one physical page.
// Page 1 carries the full blueprint; overflow pages carry header,
// continued content, and footer.
func (b *Blueprint) blocksForPage(page int) []domain.LayoutBlock {
	contentW := float64(pageWidth - 2*edgeMargin)
	y := float64(edgeMargin)

	var blocks []domain.LayoutBlock

	blocks = append(blocks, b.headerBlock(page, y, contentW))
	y += headerHeight + blockGap

	if page == 1 {
		blocks = append(blocks, b.programBlock(y, contentW))
		y += programHeight + blockGap
	}

	contentBottom := float64(pageHeight - edgeMargin - footerHeight - blockGap)
	if page == 1 {
		contentBottom -= assignmentHeight + blockGap
	}
	blocks = append(blocks, b.contentBlock(page, y, contentW, contentBottom-y))

	if page == 1 {
		blocks = append(blocks, b.assignmentBlock(contentBottom+blockGap, contentW))
	}
	blocks = append(blocks, b.footerBlock(page, contentW))

	return blocks
}

func (b *Blueprint) headerBlock(page int, y, w float64) domain.LayoutBlock {
	id := fmt.Sprintf("lesson-%d-header", b.lesson)
	titleW := w * 0.6
	return domain.LayoutBlock{
		ID:    id,
		Title: fmt.Sprintf("Lesson %d", b.lesson),
		Rect:  domain.Rect{X: edgeMargin, Y: y, W: w, H: headerHeight},
		Areas: []domain.LayoutArea{
			{
				ID:         id + "-title",
				Rect:       domain.Rect{X: edgeMargin + 12, Y: y + 12, W: titleW, H: headerHeight - 24},
				AllowsText: true,
			},
			{
				ID:         id + "-meta",
				Rect:       domain.Rect{X: edgeMargin + 24 + titleW, Y: y + 12, W: w - titleW - 36, H: headerHeight - 24},
				AllowsText: true,
				Content:    fmt.Sprintf("Page %d of %d", page, b.PageCount()),
			},
		},
	}
}

func (b *Blueprint) programBlock(y, w float64) domain.LayoutBlock {
	id := fmt.Sprintf("lesson-%d-program", b.lesson)
	return domain.LayoutBlock{
		ID:    id,
		Title: "Program",
		Rect:  domain.Rect{X: edgeMargin, Y: y, W: w, H: programHeight},
		Areas: []domain.LayoutArea{
			{
				ID:         id + "-objectives",
				Rect:       domain.Rect{X: edgeMargin + 12, Y: y + 12, W: w - 24, H: programHeight - 24},
				AllowsText: true,
				Content:    fmt.Sprintf("Objectives and schedule for lesson %d. Topics planned: %d.", b.lesson, len(b.topics)),
			},
		},
	}
}

func (b *Blueprint) contentBlock(page int, y, w, h float64) domain.LayoutBlock {
	id := fmt.Sprintf("lesson-%d-content-p%d", b.lesson, page)
	block := domain.LayoutBlock{
		ID:    id,
		Title: "Content",
		Rect:  domain.Rect{X: edgeMargin, Y: y, W: w, H: h},
	}

	start, end := topicRange(page, len(b.topics))
	rowY := y + 8
	for i := start; i < end; i++ {
		block.Areas = append(block.Areas, domain.LayoutArea{
			ID:            fmt.Sprintf("%s-topic-%d", id, i+1),
			Rect:          domain.Rect{X: edgeMargin + 12, Y: rowY, W: w - 24, H: contentRowHeight - 12},
			AllowsDrawing: true,
			AllowsMedia:   true,
			AllowsText:    true,
			Content:       b.topics[i],
		})
		rowY += contentRowHeight
	}
	return block
}

func (b *Blueprint) assignmentBlock(y, w float64) domain.LayoutBlock {
	id := fmt.Sprintf("lesson-%d-assignment", b.lesson)
	return domain.LayoutBlock{
		ID:    id,
		Title: "Assignment",
		Rect:  domain.Rect{X: edgeMargin, Y: y, W: w, H: assignmentHeight},
		Areas: []domain.LayoutArea{
			{
				ID:            id + "-task",
				Rect:          domain.Rect{X: edgeMargin + 12, Y: y + 12, W: w - 24, H: assignmentHeight - 24},
				AllowsDrawing: true,
				AllowsText:    true,
				Content:       "Work area",
			},
		},
	}
}

func (b *Blueprint) footerBlock(page int, w float64) domain.LayoutBlock {
	id := fmt.Sprintf("lesson-%d-footer-p%d", b.lesson, page)
	y := float64(pageHeight - edgeMargin - footerHeight)
	return domain.LayoutBlock{
		ID:    id,
		Title: "Footer",
		Rect:  domain.Rect{X: edgeMargin, Y: y, W: w, H: footerHeight},
		Areas: []domain.LayoutArea{
			{
				ID:      id + "-pagenum",
				Rect:    domain.Rect{X: edgeMargin + 12, Y: y + 8, W: w - 24, H: footerHeight - 16},
				Content: fmt.Sprintf("Lesson %d, page %d of %d", b.lesson, page, b.PageCount()),
			},
		},
	}
}
