package pagination

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestTotalPages_ExplicitFieldWins(t *testing.T) {
	for _, alias := range TotalPagesAliases {
		meta := map[string]any{
			alias:               float64(7),
			"totalItems":        float64(1000),
			"totalItemsPerPage": float64(10),
		}
		if got := TotalPages(meta, 24, 3); got != 7 {
			t.Fatalf("%s: expected 7, got %d", alias, got)
		}
	}
}

func TestTotalPages_AliasOrder(t *testing.T) {
	meta := map[string]any{"total_pages": "4", "totalPage": float64(9)}
	if got := TotalPages(meta, 0, 1); got != 4 {
		t.Fatalf("expected total_pages to win over totalPage, got %d", got)
	}

	// 非法值跳过，继续尝试下一个别名
	meta = map[string]any{"totalPages": "abc", "total_pages": float64(0), "total_page": float64(3)}
	if got := TotalPages(meta, 0, 1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestTotalPages_ItemsPerPage(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]any
		want int
	}{
		{"exact", map[string]any{"totalItems": float64(100), "totalItemsPerPage": float64(20)}, 5},
		{"ceil", map[string]any{"totalItems": float64(101), "totalItemsPerPage": float64(20)}, 6},
		{"snake", map[string]any{"total_items": "48", "items_per_page": "24"}, 2},
		{"json number", map[string]any{"totalItems": json.Number("30"), "itemsPerPage": json.Number("10")}, 3},
		{"fewer than a page", map[string]any{"totalItems": float64(3), "totalItemsPerPage": float64(24)}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TotalPages(tc.meta, 10, 1); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestTotalPages_PerPageFallsBackToItemCount(t *testing.T) {
	meta := map[string]any{"totalItems": float64(50)}
	if got := TotalPages(meta, 10, 1); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	// 没有条目也没有每页条数，无法计算，走启发式
	if got := TotalPages(meta, 0, 2); got != 2 {
		t.Fatalf("expected heuristic 2, got %d", got)
	}
}

func TestTotalPages_Heuristic(t *testing.T) {
	if got := TotalPages(nil, 24, 3); got != 4 {
		t.Fatalf("full page: expected 4, got %d", got)
	}
	if got := TotalPages(map[string]any{}, 10, 3); got != 3 {
		t.Fatalf("short page: expected 3, got %d", got)
	}
	if got := TotalPages(map[string]any{"totalPages": nil}, 30, 1); got != 2 {
		t.Fatalf("null metadata: expected 2, got %d", got)
	}
}

func TestTotalPages_FractionRoundsUp(t *testing.T) {
	if got := TotalPages(map[string]any{"totalPages": 2.2}, 0, 1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestTotalPages_NeverBelowOne(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	values := []any{nil, "", "x", "-3", float64(-1), float64(0), 0.3, "1e400", true, []any{}, map[string]any{}}
	keys := append(append(append([]string{}, TotalPagesAliases...), TotalItemsAliases...), PerPageAliases...)
	for i := 0; i < 2000; i++ {
		meta := map[string]any{}
		for _, k := range keys {
			if r.Intn(3) == 0 {
				meta[k] = values[r.Intn(len(values))]
			}
		}
		items := r.Intn(40)
		page := r.Intn(6) - 2
		if got := TotalPages(meta, items, page); got < 1 {
			t.Fatalf("meta=%v items=%d page=%d: got %d", meta, items, page, got)
		}
	}
}
