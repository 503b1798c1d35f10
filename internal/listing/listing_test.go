package listing

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/user/cinehub/internal/model"
	"golang.org/x/text/collate"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixture() []model.ItemSummary {
	return []model.ItemSummary{
		{Slug: "b", Name: "Đất Rừng Phương Nam", Year: 2023, Type: model.ContentSingle, ModifiedAt: at("2024-03-01T10:00:00Z")},
		{Slug: "a", Name: "an nhiên", Year: 2021, Type: model.ContentSeries, ModifiedAt: at("2024-05-01T10:00:00Z")},
		{Slug: "c", Name: "Bố Già", Type: model.ContentTVShow},
		{Slug: "d", Name: "Cô Gái", Year: 2024, Type: model.ContentSeries,
			Categories: []model.Tag{{Slug: "hoat-hinh", Name: "Hoạt Hình"}}, ModifiedAt: at("2023-01-01T00:00:00Z")},
		{Slug: "e", Name: "Zorro", Year: 2021, Type: model.ContentUnspecified},
	}
}

func slugs(items []model.ItemSummary) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Slug
	}
	return out
}

func TestFilter(t *testing.T) {
	items := fixture()
	cases := []struct {
		kind model.FilterKind
		want []string
	}{
		{model.FilterAll, []string{"b", "a", "c", "d", "e"}},
		{model.FilterSingle, []string{"b"}},
		{model.FilterSeries, []string{"a", "d"}},
		{model.FilterTVShows, []string{"c"}},
		{model.FilterAnimation, []string{"d"}},
		{model.FilterUnknown, []string{"b", "a", "c", "d", "e"}},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			got := slugs(Filter(items, tc.kind))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFilterAllKeepsElementSet(t *testing.T) {
	items := fixture()
	got := slugs(Filter(items, model.FilterAll))
	want := slugs(items)
	sort.Strings(got)
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSort(t *testing.T) {
	items := fixture()
	cases := []struct {
		key  model.SortKey
		want []string
	}{
		{model.SortLatest, []string{"a", "b", "d", "c", "e"}},
		{model.SortYear, []string{"d", "b", "a", "e", "c"}},
		{model.SortName, []string{"a", "c", "d", "b", "e"}},
		{model.SortUnknown, []string{"b", "a", "c", "d", "e"}},
	}
	for _, tc := range cases {
		t.Run(tc.key.String(), func(t *testing.T) {
			got := slugs(Sort(items, tc.key))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSortEmpty(t *testing.T) {
	for _, key := range []model.SortKey{model.SortLatest, model.SortYear, model.SortName, model.SortUnknown} {
		if got := Sort(nil, key); len(got) != 0 {
			t.Fatalf("%s: expected empty, got %v", key, got)
		}
		if got := Sort([]model.ItemSummary{}, key); len(got) != 0 {
			t.Fatalf("%s: expected empty, got %v", key, got)
		}
	}
}

func TestSortIdempotent(t *testing.T) {
	items := fixture()
	for _, key := range []model.SortKey{model.SortLatest, model.SortYear, model.SortName, model.SortUnknown} {
		once := Sort(items, key)
		twice := Sort(once, key)
		if !reflect.DeepEqual(slugs(once), slugs(twice)) {
			t.Fatalf("%s: sort not idempotent: %v vs %v", key, slugs(once), slugs(twice))
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	items := fixture()
	before := slugs(items)
	_ = Sort(items, model.SortName)
	_ = Sort(items, model.SortYear)
	_ = Apply(items, model.FilterSeries, model.SortLatest)
	if !reflect.DeepEqual(before, slugs(items)) {
		t.Fatalf("input mutated: %v -> %v", before, slugs(items))
	}

	// 不同排序交替调用，结果保持一致
	first := slugs(Sort(items, model.SortYear))
	_ = Sort(items, model.SortName)
	if again := slugs(Sort(items, model.SortYear)); !reflect.DeepEqual(first, again) {
		t.Fatalf("repeated sort differs: %v vs %v", first, again)
	}
}

func TestSortNameNonDecreasing(t *testing.T) {
	sorted := Sort(fixture(), model.SortName)
	col := collate.New(Locale, collate.IgnoreCase, collate.Loose)
	for i := 1; i < len(sorted); i++ {
		if col.CompareString(sorted[i-1].Name, sorted[i].Name) > 0 {
			t.Fatalf("%q sorted before %q", sorted[i-1].Name, sorted[i].Name)
		}
	}
}

func TestApply(t *testing.T) {
	got := slugs(Apply(fixture(), model.FilterSeries, model.SortYear))
	want := []string{"d", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
