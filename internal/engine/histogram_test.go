package engine

import (
	"testing"

	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/store"
)

func TestHistogram_AddAccumulates(t *testing.T) {
	h := NewHistogram()
	h.Add(5, domain.CategoryActual, 1)
	h.Add(5, domain.CategoryActual, 2)
	h.Add(5, domain.CategoryBid, 1)

	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}
	entries := h.Entries()
	if entries[0].Category != domain.CategoryBid || entries[0].Frequency != 1 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Category != domain.CategoryActual || entries[1].Frequency != 3 {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if h.Total(domain.CategoryActual) != 3 {
		t.Fatalf("Actual total = %d, want 3", h.Total(domain.CategoryActual))
	}
}

func TestHistogram_UnknownCategoriesKeepTheirOwnSlot(t *testing.T) {
	h := NewHistogram()
	h.Add(5, domain.Category("Foo"), 1)
	h.Add(5, domain.CategoryBid, 1)
	h.Add(5, domain.Category("Bar"), 4)
	h.Add(5, domain.Category("Foo"), 2)

	want := []domain.HistogramEntry{
		{Price: 5, Category: domain.CategoryBid, Frequency: 1},
		{Price: 5, Category: domain.Category("Bar"), Frequency: 4},
		{Price: 5, Category: domain.Category("Foo"), Frequency: 3},
	}
	entries := h.Entries()
	if len(entries) != len(want) {
		t.Fatalf("got %d entries %+v, want %d", len(entries), entries, len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
	if h.Total(domain.CategoryBid) != 1 {
		t.Errorf("Bid total = %d, want 1", h.Total(domain.CategoryBid))
	}
}

func TestHistogram_EntriesSortedByPrice(t *testing.T) {
	h := NewHistogram()
	for _, p := range []int{9, 2, 7, 2, 4} {
		h.Add(p, domain.CategoryAsk, 1)
	}

	entries := h.Entries()
	want := []domain.HistogramEntry{
		{Price: 2, Category: domain.CategoryAsk, Frequency: 2},
		{Price: 4, Category: domain.CategoryAsk, Frequency: 1},
		{Price: 7, Category: domain.CategoryAsk, Frequency: 1},
		{Price: 9, Category: domain.CategoryAsk, Frequency: 1},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestBuildHistogram(t *testing.T) {
	buyers := []domain.Agent{
		{ID: 0, Role: domain.RoleBuyer, Value: 10, QuantityHeld: 1, Price: 7},
		{ID: 1, Role: domain.RoleBuyer, Value: 6, QuantityHeld: 1, Price: 6},
		domain.NewBuyer(2, 2),
	}
	sellers := []domain.Agent{
		{ID: 0, Role: domain.RoleSeller, Value: 3, Price: 7},
		domain.NewSeller(1, 7),
		{ID: 2, Role: domain.RoleSeller, Value: 1, Price: 6},
	}
	pop := store.NewPopulation(buyers, sellers)
	trades := []domain.Trade{
		{Buyer: 0, Seller: 0, Quantity: 1, Price: 7},
		{Buyer: 1, Seller: 2, Quantity: 1, Price: 6},
	}

	h := BuildHistogram(pop, trades)

	if h.Total(domain.CategoryBid) != 2 || h.Total(domain.CategoryAsk) != 2 || h.Total(domain.CategoryActual) != 2 {
		t.Fatalf("totals bid=%d ask=%d actual=%d, want 2/2/2",
			h.Total(domain.CategoryBid), h.Total(domain.CategoryAsk), h.Total(domain.CategoryActual))
	}

	want := []domain.HistogramEntry{
		{Price: 6, Category: domain.CategoryBid, Frequency: 1},
		{Price: 6, Category: domain.CategoryAsk, Frequency: 1},
		{Price: 6, Category: domain.CategoryActual, Frequency: 1},
		{Price: 7, Category: domain.CategoryBid, Frequency: 1},
		{Price: 7, Category: domain.CategoryAsk, Frequency: 1},
		{Price: 7, Category: domain.CategoryActual, Frequency: 1},
	}
	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildHistogram_NoTrades(t *testing.T) {
	pop := store.NewPopulation([]domain.Agent{domain.NewBuyer(0, 1)}, []domain.Agent{domain.NewSeller(0, 9)})

	h := BuildHistogram(pop, nil)
	if h.Len() != 0 {
		t.Fatalf("expected empty histogram, got %d entries", h.Len())
	}
	if entries := h.Entries(); entries == nil || len(entries) != 0 {
		t.Fatalf("expected non-nil empty entries, got %v", entries)
	}
}
