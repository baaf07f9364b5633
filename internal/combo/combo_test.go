package combo

import (
	"math/rand/v2"
	"testing"

	"trickadex/internal/catalog"
)

func trick(id string) catalog.Trick {
	return catalog.Trick{ID: id, Name: id, Types: []string{"kick"}}
}

func names(s *Sequence) []string {
	out := []string{}
	for _, t := range s.Items() {
		out = append(out, t.ID)
	}
	return out
}

func assertSeq(t *testing.T, s *Sequence, want ...string) {
	t.Helper()
	got := names(s)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSequenceInsertKeepsOrderOnBothSides(t *testing.T) {
	s := &Sequence{}
	s.Insert(0, trick("a"))
	s.Insert(1, trick("c"))
	if i := s.Insert(1, trick("b")); i != 1 {
		t.Fatalf("expected index 1, got %d", i)
	}
	s.Insert(99, trick("a"))
	s.Insert(-5, trick("z"))
	assertSeq(t, s, "z", "a", "b", "c", "a")
	if s.Text() != "z -> a -> b -> c -> a" {
		t.Fatalf("unexpected text %q", s.Text())
	}
}

func TestSequenceRemoveAtOutOfRangeIsNoop(t *testing.T) {
	s := &Sequence{}
	s.Append(trick("a"))
	s.Append(trick("b"))
	if s.RemoveAt(2) || s.RemoveAt(-1) {
		t.Fatalf("out of range removal must report false")
	}
	assertSeq(t, s, "a", "b")
	if !s.RemoveAt(0) {
		t.Fatalf("expected removal")
	}
	assertSeq(t, s, "b")
}

func TestSequenceReorderClamps(t *testing.T) {
	s := &Sequence{}
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Append(trick(id))
	}
	if got := s.Reorder(0, 2); got != 2 {
		t.Fatalf("expected final index 2, got %d", got)
	}
	assertSeq(t, s, "b", "c", "a", "d")
	s.Reorder(1, 100)
	assertSeq(t, s, "b", "a", "d", "c")
	if s.Reorder(9, 0) != -1 {
		t.Fatalf("out of range source must be a no-op")
	}
	assertSeq(t, s, "b", "a", "d", "c")
	s.Clear()
	if s.Len() != 0 || s.Text() != "" {
		t.Fatalf("expected empty sequence")
	}
}

func TestRectContainsIsInclusive(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}
	for _, p := range []Point{{10, 10}, {110, 60}, {10, 60}, {110, 10}} {
		if !r.Contains(p) {
			t.Fatalf("expected %v inside", p)
		}
	}
	if r.Contains(Point{9.9, 20}) || r.Contains(Point{50, 60.1}) {
		t.Fatalf("expected points outside")
	}
}

func newTestResolver(items int) *Resolver {
	s := &Sequence{}
	for i := 0; i < items; i++ {
		s.Append(trick(string(rune('a' + i))))
	}
	r := NewResolver(s, DefaultOptions())
	r.SetZone(Rect{X: 0, Y: 0, Width: 400, Height: 180})
	return r
}

func TestResolverHoverIndexRoundsAndClamps(t *testing.T) {
	r := newTestResolver(3)
	r.Begin(trick("x"), Point{X: 0, Y: 300})
	s := r.Move(Point{X: 140, Y: -250})
	if !s.IsOverTarget || s.HoverIndex != 1 || s.AutoScroll != ScrollNone {
		t.Fatalf("unexpected sample %+v", s)
	}

	empty := newTestResolver(0)
	empty.Begin(trick("x"), Point{X: 0, Y: 300})
	if s := empty.Move(Point{X: 300, Y: -250}); s.HoverIndex != 0 {
		t.Fatalf("index must clamp to item count, got %d", s.HoverIndex)
	}
}

func TestResolverAutoScrollStartsAndStops(t *testing.T) {
	r := newTestResolver(8)
	r.Begin(trick("x"), Point{X: 0, Y: 50})
	if s := r.Move(Point{X: 45}); s.AutoScroll != ScrollLeft {
		t.Fatalf("expected left auto-scroll, got %v", s.AutoScroll)
	}
	if s := r.Move(Point{X: 200}); s.AutoScroll != ScrollNone || r.AutoScroll() != ScrollNone {
		t.Fatalf("expected auto-scroll stopped")
	}
	if s := r.Move(Point{X: 380}); s.AutoScroll != ScrollRight {
		t.Fatalf("expected right auto-scroll, got %v", s.AutoScroll)
	}
	if s := r.Move(Point{X: 380, Y: 500}); s.IsOverTarget || s.AutoScroll != ScrollNone || s.HoverIndex != -1 {
		t.Fatalf("leaving the zone must clear hover and scroll: %+v", s)
	}
}

func TestResolverStepScrollsAndRefreshesIndex(t *testing.T) {
	r := newTestResolver(8)
	r.Begin(trick("x"), Point{X: 0, Y: 50})
	before := r.Move(Point{X: 390}).HoverIndex
	for i := 0; i < 10; i++ {
		if !r.Step() {
			t.Fatalf("expected step %d to scroll", i)
		}
	}
	if r.ScrollOffset() != 200 {
		t.Fatalf("expected offset 200, got %v", r.ScrollOffset())
	}
	after := r.Last().HoverIndex
	if after <= before {
		t.Fatalf("hover index should advance with scroll: %d -> %d", before, after)
	}
	for r.Step() {
	}
	if r.ScrollOffset() != r.MaxScroll() {
		t.Fatalf("scroll must stop at max %v, got %v", r.MaxScroll(), r.ScrollOffset())
	}

	r.Move(Point{X: 10})
	for r.Step() {
	}
	if r.ScrollOffset() != 0 {
		t.Fatalf("expected scroll clamped at 0, got %v", r.ScrollOffset())
	}
	r.Cancel()
	if r.Step() {
		t.Fatalf("no scrolling after the drag ends")
	}
}

func TestResolverDropInsertsAtHoverIndex(t *testing.T) {
	r := newTestResolver(3)
	r.Begin(trick("x"), Point{X: 0, Y: 300})
	r.Move(Point{X: 140, Y: -250})
	out := r.End()
	if out.Kind != OutcomeDropped || out.Index != 1 || out.Trick.ID != "x" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	assertSeq(t, r.Sequence(), "a", "x", "b", "c")
	if r.State() != StateIdle || r.Last().HoverIndex != -1 {
		t.Fatalf("resolver must reset after drop")
	}
}

func TestResolverDropOutsideNeverMutates(t *testing.T) {
	r := newTestResolver(2)
	r.Begin(trick("x"), Point{X: 0, Y: 300})
	r.Move(Point{X: 140, Y: -250})
	r.Move(Point{X: 140, Y: 0})
	out := r.End()
	if out.Kind != OutcomeCancelled {
		t.Fatalf("expected cancel, got %v", out.Kind)
	}
	assertSeq(t, r.Sequence(), "a", "b")

	r.Begin(trick("y"), Point{X: 0, Y: 0})
	r.Move(Point{X: 100, Y: 10})
	if out := r.Cancel(); out.Kind != OutcomeCancelled {
		t.Fatalf("expected explicit cancel")
	}
	assertSeq(t, r.Sequence(), "a", "b")
	if out := r.End(); out.Kind != OutcomeNone {
		t.Fatalf("End while idle must do nothing")
	}
}

func TestResolverMoveWhileIdleProducesNothing(t *testing.T) {
	r := newTestResolver(1)
	if s := r.Move(Point{X: 10, Y: 10}); s.IsOverTarget || s.HoverIndex != -1 {
		t.Fatalf("idle resolver must not report hover: %+v", s)
	}
}

func TestRandomRespectsBoundsAndLanded(t *testing.T) {
	c := catalog.MustNew([]catalog.Trick{
		{ID: "n1", Name: "n1", Difficulty: catalog.TierNovice},
		{ID: "b1", Name: "b1", Difficulty: catalog.TierBeginner},
		{ID: "b2", Name: "b2", Difficulty: catalog.TierBeginner},
		{ID: "e1", Name: "e1", Difficulty: catalog.TierElite},
	})
	landed := map[string]bool{"b1": true, "e1": true, "n1": true}
	rng := rand.New(rand.NewPCG(1, 2))

	spec := RandomSpec{Size: 2, MinTier: catalog.TierBeginner, MaxTier: catalog.TierElite, OnlyLanded: true}
	seq := Random(c, landed, spec, rng)
	if seq.Len() != 2 {
		t.Fatalf("expected 2 tricks, got %d", seq.Len())
	}
	seen := map[string]bool{}
	for _, tr := range seq.Items() {
		if tr.ID != "b1" && tr.ID != "e1" {
			t.Fatalf("trick %q outside pool", tr.ID)
		}
		if seen[tr.ID] {
			t.Fatalf("unexpected duplicate %q with a large enough pool", tr.ID)
		}
		seen[tr.ID] = true
	}

	spec.Size = 5
	if got := Random(c, landed, spec, rng).Len(); got != 5 {
		t.Fatalf("small pools repeat tricks to fill the size, got %d", got)
	}

	spec.MinTier, spec.MaxTier = catalog.TierGodlike, catalog.TierGodlike
	if got := Random(c, landed, spec, rng).Len(); got != 0 {
		t.Fatalf("empty pool must give an empty combo, got %d", got)
	}
}
