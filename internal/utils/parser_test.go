package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hành Động":            "hanh-dong",
		"Đài Loan":             "dai-loan",
		"Khoa Học  Viễn Tưởng": "khoa-hoc-vien-tuong",
		"Phim 18+":             "phim-18",
		"  Mỹ  ":               "my",
		"":                     "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSlug(t *testing.T) {
	for _, s := range []string{"hanh-dong", "2024", "phim-le"} {
		if !IsSlug(s) {
			t.Errorf("expected %q to be a slug", s)
		}
	}
	for _, s := range []string{"", "Hanh", "a--b", "-a", "a/b", "a b"} {
		if IsSlug(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}
