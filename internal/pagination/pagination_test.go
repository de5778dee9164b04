package pagination

import (
	"math"
	"testing"
)

func TestDefaults(t *testing.T) {
	var p PageRequest
	p.Defaults()
	if p.Page != 1 || p.PageSize != 20 {
		t.Errorf("Defaults() = %+v, want page 1 size 20", p)
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", p.Offset())
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name       string
		req        PageRequest
		want       []int
		totalPages int
	}{
		{name: "first_page", req: PageRequest{Page: 1, PageSize: 2}, want: []int{1, 2}, totalPages: 3},
		{name: "last_partial_page", req: PageRequest{Page: 3, PageSize: 2}, want: []int{5}, totalPages: 3},
		{name: "past_the_end", req: PageRequest{Page: 9, PageSize: 2}, want: []int{}, totalPages: 3},
		{name: "defaults", req: PageRequest{}, want: []int{1, 2, 3, 4, 5}, totalPages: 1},
		{name: "huge_page", req: PageRequest{Page: 1 << 62, PageSize: 20}, want: []int{}, totalPages: 1},
		{name: "max_page", req: PageRequest{Page: math.MaxInt, PageSize: 100}, want: []int{}, totalPages: 1},
		{name: "negative_page", req: PageRequest{Page: -3, PageSize: 2}, want: []int{1, 2}, totalPages: 3},
		{name: "huge_page_size", req: PageRequest{Page: 2, PageSize: math.MaxInt}, want: []int{}, totalPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(items, tt.req)
			if len(got.Data) != len(tt.want) {
				t.Fatalf("Data = %v, want %v", got.Data, tt.want)
			}
			for i := range tt.want {
				if got.Data[i] != tt.want[i] {
					t.Errorf("Data[%d] = %d, want %d", i, got.Data[i], tt.want[i])
				}
			}
			if got.TotalItems != 5 {
				t.Errorf("TotalItems = %d, want 5", got.TotalItems)
			}
			if got.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.totalPages)
			}
		})
	}
}

func TestSlice_EmptyInputEncodesAsList(t *testing.T) {
	got := Slice[string](nil, PageRequest{})
	if got.Data == nil {
		t.Error("Data should be an empty slice, not nil")
	}
	if got.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", got.TotalPages)
	}
}
