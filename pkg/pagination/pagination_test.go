package pagination

import (
	"slices"
	"testing"
)

func TestSliceReturnsRequestedWindow(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	got := Slice(items, 4, 3)
	if !slices.Equal(got, []int{8, 9}) {
		t.Fatalf("expected last two items, got %v", got)
	}
	if pages := TotalPages(len(items), 4); pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestSliceOutOfRangeIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	for _, page := range []int{-1, 0, 2, 50} {
		if got := Slice(items, 3, page); len(got) != 0 {
			t.Fatalf("page %d: expected empty slice, got %v", page, got)
		}
	}
	if got := Slice(items, 0, 1); len(got) != 0 {
		t.Fatalf("zero size should yield empty slice, got %v", got)
	}
}

func TestSliceDoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	got := Slice(items, 2, 1)
	got[0] = 99
	if items[0] != 1 {
		t.Fatalf("slice mutated caller data")
	}
}

func TestPagesReconstructSequence(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	for _, size := range []int{1, 4, 5, 23, 30} {
		var joined []int
		for page := 1; page <= TotalPages(len(items), size); page++ {
			joined = append(joined, Slice(items, size, page)...)
		}
		if !slices.Equal(joined, items) {
			t.Fatalf("size %d: pages do not reconstruct input: %v", size, joined)
		}
	}
}

func TestTotalPagesEmpty(t *testing.T) {
	if got := TotalPages(0, 12); got != 0 {
		t.Fatalf("expected zero pages, got %d", got)
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, total, want int
	}{
		{page: 0, total: 3, want: 1},
		{page: 2, total: 3, want: 2},
		{page: 9, total: 3, want: 3},
		{page: 4, total: 0, want: 1},
	}
	for _, tc := range cases {
		if got := ClampPage(tc.page, tc.total); got != tc.want {
			t.Fatalf("ClampPage(%d,%d)=%d want %d", tc.page, tc.total, got, tc.want)
		}
	}
}

func TestNormalizePageSize(t *testing.T) {
	if got := NormalizePageSize(0); got != DefaultPageSize {
		t.Fatalf("expected default, got %d", got)
	}
	if got := NormalizePageSize(500); got != MaxPageSize {
		t.Fatalf("expected max, got %d", got)
	}
	if got := NormalizePageSize(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
