package template_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/template"
)

// recordingTarget captures every block list painted into it.
type recordingTarget struct {
	paints [][]domain.LayoutBlock
}

func (r *recordingTarget) RenderLayoutAsBackground(blocks []domain.LayoutBlock) error {
	r.paints = append(r.paints, blocks)
	return nil
}

func (r *recordingTarget) last() []domain.LayoutBlock {
	if len(r.paints) == 0 {
		return nil
	}
	return r.paints[len(r.paints)-1]
}

func topics(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Topic %d", i+1)
	}
	return out
}

func source(lesson, n int) template.StaticSource {
	return template.StaticSource{PerLesson: map[int][]string{lesson: topics(n)}}
}

// ─────────────────────────────────────────────────────────────
// Page counting
// ─────────────────────────────────────────────────────────────

func TestPageCountFollowsContentVolume(t *testing.T) {
	tests := []struct {
		topics    int
		wantPages int
	}{
		{0, 1},
		{1, 1},
		{5, 1},  // fills the primary page exactly
		{6, 2},  // first overflow topic
		{13, 2}, // fills the overflow page exactly
		{14, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_topics", tt.topics), func(t *testing.T) {
			b := template.New(1, source(1, tt.topics))
			if err := b.Initialize(context.Background(), &recordingTarget{}); err != nil {
				t.Fatalf("Initialize: %v", err)
			}
			if got := b.PageCount(); got != tt.wantPages {
				t.Errorf("PageCount() = %d, want %d", got, tt.wantPages)
			}
			if got := b.HasMultiplePages(); got != (tt.wantPages > 1) {
				t.Errorf("HasMultiplePages() = %v with %d pages", got, tt.wantPages)
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────
// Per-page block structure
// ─────────────────────────────────────────────────────────────

func TestPrimaryPageCarriesFullBlueprint(t *testing.T) {
	rec := &recordingTarget{}
	b := template.New(3, source(3, 4))
	if err := b.Initialize(context.Background(), rec); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	blocks := rec.last()
	var titles []string
	for _, blk := range blocks {
		titles = append(titles, blk.Title)
	}
	want := []string{"Lesson 3", "Program", "Content", "Assignment", "Footer"}
	if len(titles) != len(want) {
		t.Fatalf("page 1 blocks = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestOverflowPageOmitsProgramAndAssignment(t *testing.T) {
	rec := &recordingTarget{}
	b := template.New(1, source(1, 8))
	if err := b.Initialize(context.Background(), rec); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := b.SetPage(2); err != nil {
		t.Fatalf("SetPage(2): %v", err)
	}

	for _, blk := range rec.last() {
		if blk.Title == "Program" || blk.Title == "Assignment" {
			t.Errorf("overflow page carries %q block", blk.Title)
		}
	}
}

func TestTopicsSplitAcrossPagesWithoutLossOrOverlap(t *testing.T) {
	const total = 14
	rec := &recordingTarget{}
	b := template.New(1, source(1, total))
	if err := b.Initialize(context.Background(), rec); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	seen := map[string]int{}
	for page := 1; page <= b.PageCount(); page++ {
		if err := b.SetPage(page); err != nil {
			t.Fatalf("SetPage(%d): %v", page, err)
		}
		for _, blk := range rec.last() {
			if blk.Title != "Content" {
				continue
			}
			for _, a := range blk.Areas {
				seen[a.Content]++
				if !a.AllowsDrawing || !a.AllowsText || !a.AllowsMedia {
					t.Errorf("topic area %s is not fully editable", a.ID)
				}
			}
		}
	}

	if len(seen) != total {
		t.Fatalf("saw %d distinct topics across pages, want %d", len(seen), total)
	}
	for topic, n := range seen {
		if n != 1 {
			t.Errorf("topic %q rendered on %d pages", topic, n)
		}
	}
}

func TestFooterNamesLessonAndPage(t *testing.T) {
	rec := &recordingTarget{}
	b := template.New(2, source(2, 8))
	if err := b.Initialize(context.Background(), rec); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := b.SetPage(2); err != nil {
		t.Fatalf("SetPage(2): %v", err)
	}

	blocks := rec.last()
	footer := blocks[len(blocks)-1]
	if footer.Title != "Footer" || len(footer.Areas) != 1 {
		t.Fatalf("last block = %+v, want a single-area footer", footer)
	}
	if got := footer.Areas[0].Content; !strings.Contains(got, "Lesson 2") || !strings.Contains(got, "page 2 of 2") {
		t.Errorf("footer content = %q", got)
	}
}

// ─────────────────────────────────────────────────────────────
// Contract edges
// ─────────────────────────────────────────────────────────────

func TestSetPageOutOfRange(t *testing.T) {
	b := template.New(1, source(1, 3))
	if err := b.SetPage(1); err == nil {
		t.Error("SetPage before Initialize succeeded")
	}
	if err := b.Initialize(context.Background(), &recordingTarget{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for _, n := range []int{0, 2, -1} {
		if err := b.SetPage(n); err == nil {
			t.Errorf("SetPage(%d) on a 1-page lesson succeeded", n)
		}
	}
}

func TestInitializeHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := template.New(1, template.StaticSource{})
	if err := b.Initialize(ctx, &recordingTarget{}); err == nil {
		t.Fatal("Initialize with cancelled context succeeded")
	}
}

func TestFactoryBuildsFreshInstances(t *testing.T) {
	factory := template.Factory(template.StaticSource{TopicCount: 2})
	a, b := factory(1), factory(1)
	if a == b {
		t.Fatal("factory returned the same instance twice")
	}
}
