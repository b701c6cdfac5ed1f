package store

import (
	"testing"

	"github.com/efreitasn/zitmarket/internal/domain"
)

func newTestPopulation() *Population {
	buyers := []domain.Agent{domain.NewBuyer(0, 10), domain.NewBuyer(1, 3)}
	sellers := []domain.Agent{domain.NewSeller(0, 4), domain.NewSeller(1, 8)}
	return NewPopulation(buyers, sellers)
}

func TestPopulation_Lookup(t *testing.T) {
	p := newTestPopulation()

	if p.NumBuyers() != 2 || p.NumSellers() != 2 {
		t.Fatalf("expected 2 buyers and 2 sellers, got %d and %d", p.NumBuyers(), p.NumSellers())
	}
	b, ok := p.Buyer(1)
	if !ok || b.Value != 3 {
		t.Fatalf("Buyer(1) = %+v, %v", b, ok)
	}
	if _, ok := p.Buyer(2); ok {
		t.Fatal("Buyer(2) should be out of range")
	}
	if _, ok := p.Seller(-1); ok {
		t.Fatal("Seller(-1) should be out of range")
	}
}

func TestPopulation_Settle(t *testing.T) {
	p := newTestPopulation()

	if err := p.Settle(0, 0, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, _ := p.Buyer(0)
	s, _ := p.Seller(0)
	if b.QuantityHeld != 1 || s.QuantityHeld != 0 {
		t.Fatalf("quantities not flipped: buyer=%d seller=%d", b.QuantityHeld, s.QuantityHeld)
	}
	if b.Price != 7 || s.Price != 7 {
		t.Fatalf("prices not recorded: buyer=%d seller=%d", b.Price, s.Price)
	}

	// Both are now out of the market.
	if p.Eligible(0, 1) {
		t.Fatal("traded buyer should not be eligible")
	}
	if err := p.Settle(0, 0, 7); err == nil {
		t.Fatal("expected error settling an already traded pair")
	}
}

func TestPopulation_Settle_IneligiblePairUntouched(t *testing.T) {
	p := newTestPopulation()

	// Buyer 1 values at 3, seller 1 asks 8.
	if err := p.Settle(1, 1, 5); err == nil {
		t.Fatal("expected error for ask above bid")
	}
	b, _ := p.Buyer(1)
	s, _ := p.Seller(1)
	if b.QuantityHeld != 0 || s.QuantityHeld != 1 || b.Price != 0 || s.Price != 0 {
		t.Fatalf("ineligible pair was mutated: buyer=%+v seller=%+v", b, s)
	}
}

func TestPopulation_ReturnsCopies(t *testing.T) {
	p := newTestPopulation()

	buyers := p.Buyers()
	buyers[0].QuantityHeld = 1

	b, _ := p.Buyer(0)
	if b.QuantityHeld != 0 {
		t.Fatal("Buyers should return a copy; internal state was mutated")
	}
}
