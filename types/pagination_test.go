package types

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		in       PageQuery
		page     int
		pageSize int
	}{
		{"zero value", PageQuery{}, 1, DefaultPageSize},
		{"negative page", PageQuery{Page: -3, PageSize: 10}, 1, 10},
		{"oversized page size", PageQuery{Page: 2, PageSize: 500}, 2, MaxPageSize},
		{"in range", PageQuery{Page: 3, PageSize: 50}, 3, 50},
	}
	for _, tc := range cases {
		got := tc.in.Normalize()
		if got.Page != tc.page || got.PageSize != tc.pageSize {
			t.Errorf("%s: got %+v", tc.name, got)
		}
	}
}

func TestOffset(t *testing.T) {
	q := PageQuery{Page: 3, PageSize: 20}
	if q.Offset() != 40 {
		t.Fatalf("want offset 40, got %d", q.Offset())
	}
}

func TestNewPageNilItems(t *testing.T) {
	p := NewPage[int](nil, 0, PageQuery{Page: 1, PageSize: 20})
	if p.Items == nil {
		t.Fatal("items should be an empty slice, not nil")
	}
}

func TestSlicePage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := SlicePage(items, PageQuery{Page: 2, PageSize: 2})
	if p.TotalCount != 5 {
		t.Fatalf("want total 5, got %d", p.TotalCount)
	}
	if len(p.Items) != 2 || p.Items[0] != 3 || p.Items[1] != 4 {
		t.Fatalf("want [3 4], got %v", p.Items)
	}

	last := SlicePage(items, PageQuery{Page: 3, PageSize: 2})
	if len(last.Items) != 1 || last.Items[0] != 5 {
		t.Fatalf("want [5], got %v", last.Items)
	}

	beyond := SlicePage(items, PageQuery{Page: 4, PageSize: 2})
	if len(beyond.Items) != 0 || beyond.TotalCount != 5 {
		t.Fatalf("past-the-end page should be empty with total intact, got %+v", beyond)
	}
}
