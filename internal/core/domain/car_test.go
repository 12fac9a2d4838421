package domain

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{13, 6, 3},
		{12, 6, 2},
		{1, 6, 1},
		{0, 6, 0},
		{6, 6, 1},
		{7, 6, 2},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestCarFiltersNormalize(t *testing.T) {
	f := CarFilters{Page: 0, Limit: -2, MinPrice: -50, SortBy: CarSort("weird")}
	f.Normalize()

	if f.Page != 1 {
		t.Fatalf("page = %d, want 1", f.Page)
	}
	if f.Limit != 6 {
		t.Fatalf("limit = %d, want 6", f.Limit)
	}
	if f.MinPrice != 0 {
		t.Fatalf("minPrice = %f, want 0", f.MinPrice)
	}
	if f.SortBy != SortNewest {
		t.Fatalf("sortBy = %s, want %s", f.SortBy, SortNewest)
	}

	g := CarFilters{Page: 3, Limit: 12, SortBy: SortPriceDesc}
	g.Normalize()
	if g.Page != 3 || g.Limit != 12 || g.SortBy != SortPriceDesc {
		t.Fatalf("valid filters must survive normalization: %+v", g)
	}
}
