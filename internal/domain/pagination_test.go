package domain

import "testing"

func TestPageOptionsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PageOptions
		wantPage  int
		wantTake  int
		wantOrder string
	}{
		{name: "defaults", in: PageOptions{}, wantPage: 1, wantTake: 20, wantOrder: OrderDesc},
		{name: "take capped", in: PageOptions{Page: 2, Take: 500}, wantPage: 2, wantTake: 100, wantOrder: OrderDesc},
		{name: "asc preserved", in: PageOptions{Page: 1, Take: 10, Order: OrderAsc}, wantPage: 1, wantTake: 10, wantOrder: OrderAsc},
		{name: "junk order becomes desc", in: PageOptions{Order: "sideways"}, wantPage: 1, wantTake: 20, wantOrder: OrderDesc},
		{name: "negative page", in: PageOptions{Page: -3}, wantPage: 1, wantTake: 20, wantOrder: OrderDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.in.Page, tt.wantPage)
			}
			if tt.in.Take != tt.wantTake {
				t.Errorf("Take = %d, want %d", tt.in.Take, tt.wantTake)
			}
			if tt.in.Order != tt.wantOrder {
				t.Errorf("Order = %q, want %q", tt.in.Order, tt.wantOrder)
			}
		})
	}
}

func TestPageOptionsTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		take       int
		totalCount int64
		want       int
	}{
		{name: "exact division", take: 10, totalCount: 40, want: 4},
		{name: "rounds up", take: 10, totalCount: 41, want: 5},
		{name: "empty", take: 10, totalCount: 0, want: 0},
		{name: "single partial page", take: 20, totalCount: 7, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PageOptions{Take: tt.take}
			if got := p.TotalPages(tt.totalCount); got != tt.want {
				t.Errorf("TotalPages(%d) = %d, want %d", tt.totalCount, got, tt.want)
			}
		})
	}
}

func TestPageOptionsSkip(t *testing.T) {
	p := PageOptions{Page: 3, Take: 25}
	if got := p.Skip(); got != 50 {
		t.Errorf("Skip() = %d, want 50", got)
	}
}
