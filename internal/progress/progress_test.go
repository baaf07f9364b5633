package progress

import (
	"fmt"
	"testing"

	"trickadex/internal/catalog"
)

func tricksAt(prefix string, tier catalog.Tier, n int, types ...string) []catalog.Trick {
	out := make([]catalog.Trick, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = catalog.Trick{ID: id, Name: id, Types: types, Difficulty: tier}
	}
	return out
}

func TestTierProgressRoundsAndHandlesEmptyTiers(t *testing.T) {
	c := catalog.MustNew(tricksAt("in", catalog.TierIntermediate, 4, "kick"))
	landed := map[string]bool{"in0": true, "in1": true, "in2": true}
	rows := ComputeTierProgress(c, landed)
	if len(rows) != catalog.TierCount {
		t.Fatalf("expected %d rows, got %d", catalog.TierCount, len(rows))
	}
	got := rows[catalog.TierIntermediate]
	if got.Total != 4 || got.Landed != 3 || got.Percent != 75 || got.Mastered() {
		t.Fatalf("unexpected intermediate row %+v", got)
	}
	empty := rows[catalog.TierTranscendent]
	if empty.Total != 0 || empty.Landed != 0 || empty.Percent != 0 || empty.Mastered() {
		t.Fatalf("unexpected empty row %+v", empty)
	}

	landed["in3"] = true
	if !ComputeTierProgress(c, landed)[catalog.TierIntermediate].Mastered() {
		t.Fatalf("expected tier mastered")
	}
}

func TestTierProgressRoundsToNearestPercent(t *testing.T) {
	c := catalog.MustNew(tricksAt("x", catalog.TierNovice, 3, "kick"))
	rows := ComputeTierProgress(c, map[string]bool{"x0": true, "x1": true})
	if rows[0].Percent != 67 {
		t.Fatalf("expected 67, got %d", rows[0].Percent)
	}
}

func landAll(tricks []catalog.Trick) map[string]bool {
	out := map[string]bool{}
	for _, t := range tricks {
		out[t.ID] = true
	}
	return out
}

func TestUserFocusNewWhenFewLanded(t *testing.T) {
	tricks := tricksAt("k", catalog.TierBeginner, 9, "kick")
	f := ComputeUserFocus(catalog.MustNew(tricks), landAll(tricks), DefaultFocusConfig())
	if f.Label != LabelNewToTricks {
		t.Fatalf("expected new label, got %q", f.Label)
	}
	if f.Level != "Beginner" || f.LevelPercent != 100 || f.TotalLanded != 9 {
		t.Fatalf("unexpected focus %+v", f)
	}
}

func TestUserFocusNewWhenNoTierQualifies(t *testing.T) {
	var tricks []catalog.Trick
	for tier := catalog.TierNovice; tier <= catalog.TierGodlike; tier++ {
		tricks = append(tricks, tricksAt(fmt.Sprintf("t%d_", tier), tier, 3, "kick")...)
	}
	f := ComputeUserFocus(catalog.MustNew(tricks), landAll(tricks), DefaultFocusConfig())
	if f.Label != LabelNewToTricks || f.Level != LevelUnranked || f.Ranked() {
		t.Fatalf("unexpected focus %+v", f)
	}
}

func TestUserFocusSpecialistAndLevel(t *testing.T) {
	tricks := append(tricksAt("k", catalog.TierNovice, 6, "kick"), tricksAt("f", catalog.TierElite, 4, "flip")...)
	tricks = append(tricks, tricksAt("u", catalog.TierElite, 2, "flip")...)
	landed := landAll(tricks)
	delete(landed, "u0")
	delete(landed, "u1")
	f := ComputeUserFocus(catalog.MustNew(tricks), landed, DefaultFocusConfig())
	if f.Label != LabelKicker {
		t.Fatalf("expected Kicker (60%% kicks), got %q", f.Label)
	}
	if f.Level != "Elite" || f.LevelTier != catalog.TierElite || f.LevelPercent != 67 {
		t.Fatalf("expected highest qualifying tier Elite at 67%%, got %+v", f)
	}
}

func TestUserFocusWellRoundedIgnoresOtherTags(t *testing.T) {
	tricks := append(tricksAt("k", catalog.TierNovice, 4, "kick"), tricksAt("f", catalog.TierNovice, 4, "flip")...)
	tricks = append(tricks, tricksAt("w", catalog.TierNovice, 4, "twist")...)
	tricks = append(tricks, tricksAt("t", catalog.TierNovice, 8, "transition")...)
	f := ComputeUserFocus(catalog.MustNew(tricks), landAll(tricks), DefaultFocusConfig())
	if f.Label != LabelWellRounded {
		t.Fatalf("expected well rounded, got %q (%v)", f.Label, f.Counts)
	}
	if f.Counts["kick"] != 4 || f.TotalLanded != 20 {
		t.Fatalf("unexpected tallies %+v", f)
	}
}

func TestUserFocusThresholdsAreConfigurable(t *testing.T) {
	tricks := tricksAt("k", catalog.TierNovice, 2, "kick")
	cfg := FocusConfig{MinLanded: 2, TierThreshold: 2, SpecialistShare: 90}
	f := ComputeUserFocus(catalog.MustNew(tricks), landAll(tricks), cfg)
	if f.Label != LabelKicker || f.Level != "Novice" {
		t.Fatalf("unexpected focus %+v", f)
	}
}

func TestUserFocusIgnoresUnknownIDs(t *testing.T) {
	c := catalog.MustNew(tricksAt("k", catalog.TierNovice, 1, "kick"))
	f := ComputeUserFocus(c, map[string]bool{"ghost": true, "k0": true}, DefaultFocusConfig())
	if f.TotalLanded != 1 {
		t.Fatalf("expected 1 landed, got %d", f.TotalLanded)
	}
}

func TestUnknownIDsDoNotCountTowardMinLanded(t *testing.T) {
	tricks := tricksAt("k", catalog.TierNovice, 2, "kick")
	landed := landAll(tricks)
	for _, id := range []string{"ghost1", "ghost2", "ghost3"} {
		landed[id] = true
	}
	cfg := FocusConfig{MinLanded: 3, TierThreshold: 2, SpecialistShare: 40}
	f := ComputeUserFocus(catalog.MustNew(tricks), landed, cfg)
	if f.TotalLanded != 2 || f.Label != LabelNewToTricks {
		t.Fatalf("expected two landed and still new, got %+v", f)
	}
}

func TestNextLearnsPreviewOrdersByDifficulty(t *testing.T) {
	tricks := []catalog.Trick{
		{ID: "a", Difficulty: catalog.TierElite},
		{ID: "b", Difficulty: catalog.TierNovice},
		{ID: "c", Difficulty: catalog.TierElite},
		{ID: "d", Difficulty: catalog.TierNovice},
	}
	got := NextLearnsPreview(tricks, 3)
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "d" || got[2].ID != "a" {
		t.Fatalf("unexpected preview %+v", got)
	}
}

func TestDisplayProgressesMonotonicallyAndSettles(t *testing.T) {
	d := NewDisplay(60)
	d.SetTarget(80)
	prev := d.Value()
	settled := false
	for i := 0; i < 600; i++ {
		settled = d.Step()
		if d.Value() < prev {
			t.Fatalf("value went backwards at frame %d: %d -> %d", i, prev, d.Value())
		}
		prev = d.Value()
		if settled {
			break
		}
	}
	if !settled || d.Value() != 80 {
		t.Fatalf("expected settled at 80, got %d settled=%v", d.Value(), settled)
	}

	d.SetTarget(20)
	prev = d.Value()
	for i := 0; i < 600 && !d.Step(); i++ {
		if d.Value() > prev {
			t.Fatalf("value went up while falling")
		}
		prev = d.Value()
	}
	if d.Value() != 20 {
		t.Fatalf("expected 20, got %d", d.Value())
	}
}

func TestDisplayWithoutMotionJumps(t *testing.T) {
	d := NewDisplay(0)
	d.SetTarget(150)
	if !d.Step() || d.Value() != 100 {
		t.Fatalf("expected immediate clamp to 100, got %d", d.Value())
	}
}

func TestDisplayResetReplaysFromZero(t *testing.T) {
	d := NewDisplay(60)
	d.SetTarget(60)
	d.Jump()
	d.Reset()
	if d.Value() != 0 || d.Settled() {
		t.Fatalf("expected reset to zero and unsettled, got %d", d.Value())
	}
	for i := 0; i < 600 && !d.Step(); i++ {
	}
	if d.Value() != 60 {
		t.Fatalf("expected to climb back to 60, got %d", d.Value())
	}
}
