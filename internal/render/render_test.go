package render

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/model"
)

type testLinks struct{}

func (testLinks) PageURL(page int) string { return fmt.Sprintf("/?page=%d", page) }
func (testLinks) FragmentURL(page int) string { return fmt.Sprintf("/htmx/listing?view=home&page=%d", page) }

func parse(t *testing.T, h template.HTML) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(h)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func sampleItems(n int) []model.ItemSummary {
	out := make([]model.ItemSummary, n)
	for i := range out {
		out[i] = model.ItemSummary{
			Slug:      fmt.Sprintf("movie-%d", i),
			Name:      fmt.Sprintf("Movie %d", i),
			Year:      2000 + i,
			Quality:   "FHD",
			PosterURL: fmt.Sprintf("https://img.example.test/%d.jpg", i),
		}
	}
	return out
}

func TestGridCards(t *testing.T) {
	r := MustNew()
	items := []model.ItemSummary{
		{Slug: "bo-gia", Name: "Bố Già", Year: 2021, Quality: "FHD", EpisodeCurrent: "Tập 3", PosterURL: "https://img.example.test/bo-gia.jpg"},
		{Slug: "no-meta", Name: "<b>No Meta</b>"},
	}
	h, err := r.Grid(items)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	doc := parse(t, h)

	cards := doc.Find(".movie")
	if cards.Length() != 2 {
		t.Fatalf("expected 2 cards, got %d", cards.Length())
	}
	if doc.Find(".empty-state").Length() != 0 {
		t.Fatalf("unexpected empty state")
	}

	first := cards.Eq(0)
	if href, _ := first.Find("a").Attr("href"); href != "/movie/bo-gia" {
		t.Fatalf("unexpected href %q", href)
	}
	img := first.Find("img")
	if src, _ := img.Attr("src"); src != "https://img.example.test/bo-gia.jpg" {
		t.Fatalf("unexpected src %q", src)
	}
	if lazy, _ := img.Attr("loading"); lazy != "lazy" {
		t.Fatalf("expected lazy loading")
	}
	if fb, _ := img.Attr("data-fallback"); !strings.HasPrefix(fb, "data:image/svg+xml;base64,") {
		t.Fatalf("unexpected fallback %q", fb)
	}
	if got := first.Find(".movie-episode").Text(); got != "Tập 3" {
		t.Fatalf("unexpected episode %q", got)
	}

	second := cards.Eq(1)
	if got := second.Find(".movie-badge").Text(); got != DefaultQuality {
		t.Fatalf("expected default quality, got %q", got)
	}
	if got := second.Find(".movie-episode").Text(); got != DefaultEpisode {
		t.Fatalf("expected default episode, got %q", got)
	}
	if got := second.Find(".movie-year").Text(); got != MissingYear {
		t.Fatalf("expected N/A year, got %q", got)
	}
	if got := second.Find(".movie-title").Text(); got != "<b>No Meta</b>" {
		t.Fatalf("name should be escaped text, got %q", got)
	}
	if second.Find(".movie-title b").Length() != 0 {
		t.Fatalf("name was rendered as markup")
	}
	// 没有图片时直接使用占位图
	if src, _ := second.Find("img").Attr("src"); !strings.HasPrefix(src, "data:image/svg+xml") {
		t.Fatalf("expected placeholder src, got %q", src)
	}
}

func TestGridEmpty(t *testing.T) {
	r := MustNew()
	for _, items := range [][]model.ItemSummary{nil, {}} {
		h, err := r.Grid(items)
		if err != nil {
			t.Fatalf("Grid: %v", err)
		}
		doc := parse(t, h)
		if n := doc.Find(".empty-state").Length(); n != 1 {
			t.Fatalf("expected one empty state, got %d", n)
		}
		if n := doc.Find(".movie").Length(); n != 0 {
			t.Fatalf("expected no cards, got %d", n)
		}
	}
}

func TestGridIdempotent(t *testing.T) {
	r := MustNew()
	items := sampleItems(5)
	a, err := r.Grid(items)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Grid(items)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("rendering the same input twice differs")
	}
}

func TestPagination(t *testing.T) {
	r := MustNew()

	h, err := r.Pagination(model.PaginationState{CurrentPage: 1, TotalPages: 1}, testLinks{})
	if err != nil || h != "" {
		t.Fatalf("single page should render nothing, got %q %v", h, err)
	}

	h, err = r.Pagination(model.PaginationState{CurrentPage: 2, TotalPages: 3}, testLinks{})
	if err != nil {
		t.Fatalf("Pagination: %v", err)
	}
	doc := parse(t, h)
	if got := doc.Find(".page-info").Text(); got != "Page 2 / 3" {
		t.Fatalf("unexpected page info %q", got)
	}
	if hx, _ := doc.Find("a.page-prev").Attr("hx-get"); hx != "/htmx/listing?view=home&page=1" {
		t.Fatalf("unexpected prev hx-get %q", hx)
	}
	if href, _ := doc.Find("a.page-next").Attr("href"); href != "/?page=3" {
		t.Fatalf("unexpected next href %q", href)
	}

	h, _ = r.Pagination(model.PaginationState{CurrentPage: 3, TotalPages: 3}, testLinks{})
	doc = parse(t, h)
	if _, disabled := doc.Find("button.page-next").Attr("disabled"); !disabled {
		t.Fatalf("next should be disabled on the last page")
	}
}

func TestListingFullPage(t *testing.T) {
	r := MustNew()
	snap := controller.Snapshot{
		State:      controller.StateLoaded,
		Items:      sampleItems(24),
		Fetched:    24,
		Pagination: model.PaginationState{CurrentPage: 1, TotalPages: 2},
	}
	h, err := r.Listing(snap, testLinks{})
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	doc := parse(t, h)
	if n := doc.Find("#listing .movie").Length(); n != 24 {
		t.Fatalf("expected 24 cards, got %d", n)
	}
	if got := doc.Find(".page-info").Text(); got != "Page 1 / 2" {
		t.Fatalf("unexpected page info %q", got)
	}
	if state, _ := doc.Find("#listing").Attr("data-state"); state != "loaded" {
		t.Fatalf("unexpected state %q", state)
	}
}

func TestListingEmpty(t *testing.T) {
	r := MustNew()
	snap := controller.Snapshot{
		State:      controller.StateLoaded,
		Items:      []model.ItemSummary{},
		Pagination: model.PaginationState{CurrentPage: 1, TotalPages: 1},
	}
	h, err := r.Listing(snap, testLinks{})
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	doc := parse(t, h)
	if n := doc.Find(".empty-state").Length(); n != 1 {
		t.Fatalf("expected one empty state, got %d", n)
	}
	if n := doc.Find(".pagination").Length(); n != 0 {
		t.Fatalf("expected no pagination, got %d", n)
	}
}

func TestListingFailed(t *testing.T) {
	r := MustNew()
	snap := controller.Snapshot{
		State: controller.StateFailed,
		Query: model.NewPageQuery().WithPage(3),
		Err:   &catalog.DecodeError{URL: "x", Err: errors.New("bad json")},
	}
	h, err := r.Listing(snap, testLinks{})
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	doc := parse(t, h)
	if got := doc.Find(".error-message").Text(); got != ErrorMessage("decode") {
		t.Fatalf("unexpected message %q", got)
	}
	if hx, _ := doc.Find(".retry-btn").Attr("hx-get"); hx != "/htmx/listing?view=home&page=3" {
		t.Fatalf("unexpected retry target %q", hx)
	}
	if doc.Find(".movie").Length() != 0 {
		t.Fatalf("failed listing should not render cards")
	}
}

func TestListingLoadingFetchesItself(t *testing.T) {
	r := MustNew()
	snap := controller.Snapshot{
		State:      controller.StateLoading,
		Query:      model.NewPageQuery().WithPage(2),
		Pagination: model.PaginationState{CurrentPage: 2},
	}
	h, err := r.Listing(snap, testLinks{})
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	doc := parse(t, h)
	section := doc.Find("#listing")
	if hx, _ := section.Attr("hx-get"); hx != "/htmx/listing?view=home&page=2" {
		t.Fatalf("unexpected pending target %q", hx)
	}
	if trigger, _ := section.Attr("hx-trigger"); trigger != "load" {
		t.Fatalf("loading listing should fetch on load, got %q", trigger)
	}

	// 已加载的列表不再自动请求
	loaded, _ := r.Listing(controller.Snapshot{
		State:      controller.StateLoaded,
		Items:      sampleItems(1),
		Pagination: model.PaginationState{CurrentPage: 1, TotalPages: 1},
	}, testLinks{})
	if _, ok := parse(t, loaded).Find("#listing").Attr("hx-trigger"); ok {
		t.Fatal("loaded listing must not carry a load trigger")
	}
}

func TestSuggestions(t *testing.T) {
	r := MustNew()
	h, err := r.Suggestions(sampleItems(8))
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	doc := parse(t, h)
	if n := doc.Find(".suggestion").Length(); n != 5 {
		t.Fatalf("expected 5 suggestions, got %d", n)
	}

	h, _ = r.Suggestions(nil)
	doc = parse(t, h)
	if n := doc.Find(".suggestion-empty").Length(); n != 1 {
		t.Fatalf("expected no-results row, got %d", n)
	}
}

func TestPlaceholderDeterministic(t *testing.T) {
	a := Placeholder(300, 450, "Bố Già")
	b := Placeholder(300, 450, "Bố Già")
	if a != b {
		t.Fatalf("placeholder not deterministic")
	}
	if a == Placeholder(300, 450, "Other") {
		t.Fatalf("placeholder should depend on label")
	}
	if !strings.HasPrefix(a, "data:image/svg+xml;base64,") {
		t.Fatalf("unexpected prefix %q", a[:30])
	}
}
