package filter

import (
	"testing"

	"trickadex/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Trick{
		{ID: "aa", Name: "Alpha Kick", Types: []string{"kick"}, Difficulty: catalog.TierNovice},
		{ID: "bb", Name: "Bravo Flip", Types: []string{"flip"}, Prerequisites: []string{"aa"}, Difficulty: catalog.TierBeginner},
		{ID: "cc", Name: "Charlie Kick", Types: []string{"kick", "twist"}, Difficulty: catalog.TierElite},
		{ID: "dd", Name: "Delta Flip", Types: []string{"flip"}, Difficulty: catalog.TierElite},
		{ID: "ee", Name: "Echo", Types: []string{"transition"}, Prerequisites: []string{"missing"}, Difficulty: catalog.TierGodlike},
		{ID: "ff", Name: "Landed Roll", Types: []string{"transition"}, Difficulty: catalog.TierNovice},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func ids(tricks []catalog.Trick) []string {
	out := make([]string, len(tricks))
	for i, tr := range tricks {
		out[i] = tr.ID
	}
	return out
}

func assertIDs(t *testing.T, got []catalog.Trick, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v want %v", g, want)
		}
	}
}

func TestResolveWithoutFiltersReturnsCatalogInOrder(t *testing.T) {
	c := testCatalog(t)
	got := ResolveVisibleTricks(c, nil, nil, nil, "")
	assertIDs(t, got, ids(c.Tricks())...)
}

func TestResolveTierFilter(t *testing.T) {
	c := testCatalog(t)
	assertIDs(t, ResolveVisibleTricks(c, nil, nil, []string{"Elite"}, ""), "cc", "dd")
}

func TestResolveFiltersUseAndSemantics(t *testing.T) {
	c := testCatalog(t)
	assertIDs(t, ResolveVisibleTricks(c, nil, nil, []string{"Kick", "Elite"}, ""), "cc")
}

func TestResolveSearchNamingFilterActsAsFilter(t *testing.T) {
	c := testCatalog(t)
	landed := map[string]bool{"aa": true, "dd": true}
	viaSearch := ResolveVisibleTricks(c, landed, nil, nil, "landed")
	viaChip := ResolveVisibleTricks(c, landed, nil, []string{"Landed"}, "")
	assertIDs(t, viaSearch, ids(viaChip)...)
	assertIDs(t, viaSearch, "aa", "dd")
}

func TestResolveSearchAlreadyActiveIsNotSubstringMatched(t *testing.T) {
	c := testCatalog(t)
	got := ResolveVisibleTricks(c, nil, nil, []string{"Kick"}, "KICK")
	assertIDs(t, got, "aa", "cc")
}

func TestResolveSubstringSearch(t *testing.T) {
	c := testCatalog(t)
	assertIDs(t, ResolveVisibleTricks(c, nil, nil, nil, "ICK"), "aa", "cc")
	assertIDs(t, ResolveVisibleTricks(c, nil, nil, []string{"Elite"}, "del"), "dd")
	assertIDs(t, ResolveVisibleTricks(c, nil, nil, nil, "nothing"))
}

func TestResolveFavoritesAndNextLearns(t *testing.T) {
	c := testCatalog(t)
	landed := map[string]bool{"aa": true}
	favs := map[string]bool{"bb": true, "ee": true}
	assertIDs(t, ResolveVisibleTricks(c, landed, favs, []string{"Favorites"}, ""), "bb", "ee")
	assertIDs(t, ResolveVisibleTricks(c, landed, favs, []string{"Next Learns"}, ""), "bb", "cc", "dd", "ff")
	assertIDs(t, ResolveVisibleTricks(c, landed, favs, []string{"Next Learns", "Favorites"}, ""), "bb")
}

func TestRecommendedSet(t *testing.T) {
	c := testCatalog(t)
	rec := ComputeRecommendedSet(c, nil)
	if !rec["aa"] || rec["bb"] || rec["ee"] {
		t.Fatalf("unexpected recommended set %v", rec)
	}
	rec = ComputeRecommendedSet(c, map[string]bool{"aa": true})
	if rec["aa"] || !rec["bb"] {
		t.Fatalf("landing aa should drop it and unlock bb: %v", rec)
	}
	rec = ComputeRecommendedSet(c, map[string]bool{"missing": false})
	if rec["ee"] {
		t.Fatalf("dangling prerequisite must never be satisfied")
	}
}

func TestGroupByTier(t *testing.T) {
	c := testCatalog(t)
	groups := GroupByTier(c.Tricks())
	if len(groups) != 4 {
		t.Fatalf("expected 4 non-empty tiers, got %d", len(groups))
	}
	want := []catalog.Tier{catalog.TierNovice, catalog.TierBeginner, catalog.TierElite, catalog.TierGodlike}
	for i, g := range groups {
		if g.Tier != want[i] {
			t.Fatalf("group %d tier %v want %v", i, g.Tier, want[i])
		}
	}
	assertIDs(t, groups[0].Tricks, "aa", "ff")
	assertIDs(t, groups[2].Tricks, "cc", "dd")
	if len(GroupByTier(nil)) != 0 {
		t.Fatalf("expected no groups for empty input")
	}
}

func TestSelectionToggle(t *testing.T) {
	s := NewSelection().Toggle("Kick").Toggle("Elite")
	if !s.Has("kick") || s.Len() != 2 {
		t.Fatalf("unexpected selection %v", s.Names())
	}
	s = s.Toggle("KICK")
	if s.Has("Kick") || s.Len() != 1 {
		t.Fatalf("expected kick removed: %v", s.Names())
	}
	if NewSelection("a", "b").Key() != NewSelection("B", "A").Key() {
		t.Fatalf("key must be order and case independent")
	}
	if s.Clear().Len() != 0 {
		t.Fatalf("clear must empty the selection")
	}
}

func TestSuggest(t *testing.T) {
	got := Suggest("nxt")
	if len(got) == 0 || got[0] != catalog.FilterNextLearns {
		t.Fatalf("expected Next Learns first, got %v", got)
	}
	if Suggest("") != nil {
		t.Fatalf("empty search must not suggest")
	}
}
