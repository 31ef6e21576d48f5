package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
		wantOffset          int
	}{
		{1, 10, 1, 10, 0},
		{3, 20, 3, 20, 40},
		{0, 0, 1, DefaultLimit, 0},
		{-5, -1, 1, DefaultLimit, 0},
		{2, 500, 2, MaxLimit, MaxLimit},
	}

	for _, tc := range cases {
		got := Normalize(tc.page, tc.limit)
		if got.Page != tc.wantPage || got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("Normalize(%d, %d) = %+v, want page %d limit %d offset %d",
				tc.page, tc.limit, got, tc.wantPage, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 35)
	if meta.TotalPages != 4 {
		t.Errorf("expected 4 pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrev {
		t.Errorf("expected both next and prev on middle page: %+v", meta)
	}

	first := GetMeta(&Params{Page: 1, Limit: 10}, 5)
	if first.TotalPages != 1 || first.HasNext || first.HasPrev {
		t.Errorf("unexpected meta for single page: %+v", first)
	}

	empty := GetMeta(&Params{Page: 1, Limit: 10}, 0)
	if empty.TotalPages != 0 || empty.HasNext {
		t.Errorf("unexpected meta for empty set: %+v", empty)
	}
}
