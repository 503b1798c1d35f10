package model

import "testing"

func TestParseFilterKind(t *testing.T) {
	cases := map[string]FilterKind{
		"":          FilterAll,
		"all":       FilterAll,
		" Phim-Le ": FilterSingle,
		"phim-bo":   FilterSeries,
		"tv-shows":  FilterTVShows,
		"hoat-hinh": FilterAnimation,
		"anime":     FilterUnknown,
	}
	for in, want := range cases {
		if got := ParseFilterKind(in); got != want {
			t.Errorf("ParseFilterKind(%q) = %v, want %v", in, got, want)
		}
	}
	for _, f := range FilterKinds {
		if ParseFilterKind(f.String()) != f {
			t.Errorf("%v does not round-trip through its slug", f)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"":       SortLatest,
		"latest": SortLatest,
		"YEAR":   SortYear,
		"name":   SortName,
		"rating": SortUnknown,
	}
	for in, want := range cases {
		if got := ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPageQueryTransitions(t *testing.T) {
	q := NewPageQuery().WithPage(4)

	if got := q.WithFilter(FilterSeries); got.Page != 1 || got.Filter != FilterSeries {
		t.Fatalf("filter change should reset page, got %+v", got)
	}
	if got := q.WithSort(SortName); got.Page != 1 {
		t.Fatalf("sort change should reset page, got %+v", got)
	}
	if got := q.WithSearch("  bo gia "); got.Page != 1 || got.Search != "bo gia" {
		t.Fatalf("search change should trim and reset page, got %+v", got)
	}
	if got := q.WithFacet(FacetCountry, "han-quoc"); got.Page != 1 || got.Facet.Slug != "han-quoc" {
		t.Fatalf("facet change should reset page, got %+v", got)
	}
	if q.Page != 4 {
		t.Fatal("transitions must not modify the receiver")
	}

	if !q.SameCriteria(q.WithPage(9)) {
		t.Fatal("page-only change keeps criteria")
	}
	if q.SameCriteria(q.WithSort(SortYear)) {
		t.Fatal("sort change alters criteria")
	}
}

func TestPaginationStateClamp(t *testing.T) {
	cases := []struct {
		in, want PaginationState
	}{
		{PaginationState{CurrentPage: 3, TotalPages: 2}, PaginationState{CurrentPage: 2, TotalPages: 2}},
		{PaginationState{CurrentPage: 0, TotalPages: 0}, PaginationState{CurrentPage: 1, TotalPages: 1}},
		{PaginationState{CurrentPage: 2, TotalPages: 5}, PaginationState{CurrentPage: 2, TotalPages: 5}},
	}
	for _, tc := range cases {
		if got := tc.in.Clamp(); got != tc.want {
			t.Errorf("Clamp(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	p := PaginationState{CurrentPage: 1, TotalPages: 1}
	if p.Visible() || p.HasPrev() || p.HasNext() {
		t.Fatal("single page has no controls")
	}
	p = PaginationState{CurrentPage: 2, TotalPages: 3}
	if !p.Visible() || !p.HasPrev() || !p.HasNext() || !p.Contains(3) || p.Contains(4) || p.Contains(0) {
		t.Fatalf("unexpected controls for %+v", p)
	}
}

func TestFacetTitle(t *testing.T) {
	cases := []struct {
		facet Facet
		want  string
	}{
		{Facet{Kind: FacetCountry, Slug: "han-quoc"}, "Country: HAN QUOC"},
		{Facet{Kind: FacetYear, Slug: "2024"}, "Release year: 2024"},
		{Facet{Kind: FacetGenre, Slug: "all"}, "All titles by genre"},
		{Facet{Kind: FacetList}, "All titles"},
		{Facet{Kind: FacetNone, Slug: "x"}, ""},
	}
	for _, tc := range cases {
		if got := tc.facet.Title(); got != tc.want {
			t.Errorf("%+v.Title() = %q, want %q", tc.facet, got, tc.want)
		}
	}
}

func TestItemDetailGroup(t *testing.T) {
	d := ItemDetail{Episodes: []EpisodeGroup{{ServerName: "a"}, {ServerName: "b"}}}
	if g, i, ok := d.Group(1); !ok || i != 1 || g.ServerName != "b" {
		t.Fatalf("unexpected group %v %d %v", g, i, ok)
	}
	if g, i, ok := d.Group(7); !ok || i != 0 || g.ServerName != "a" {
		t.Fatalf("out-of-range index should fall back to first, got %v %d %v", g, i, ok)
	}
	if _, _, ok := (&ItemDetail{}).Group(0); ok {
		t.Fatal("no groups")
	}
}
