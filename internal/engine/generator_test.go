package engine

import (
	"errors"
	"testing"

	"github.com/efreitasn/zitmarket/internal/domain"
	"pgregory.net/rapid"
)

func TestGenerateAgents_ExactCounts(t *testing.T) {
	cfg := domain.MarketConfig{NumBuyers: 3, NumSellers: 5, MaxTrades: 1, MaxBuyerValue: 10, MaxSellerValue: 10}

	pop, err := GenerateAgents(cfg, NewSource(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pop.NumBuyers() != 3 {
		t.Errorf("NumBuyers = %d, want 3", pop.NumBuyers())
	}
	if pop.NumSellers() != 5 {
		t.Errorf("NumSellers = %d, want 5", pop.NumSellers())
	}
}

func TestGenerateAgents_ScriptedValues(t *testing.T) {
	cfg := domain.MarketConfig{NumBuyers: 2, NumSellers: 2, MaxTrades: 1, MaxBuyerValue: 10, MaxSellerValue: 20}

	// Buyers draw first, then sellers; each draw is offset by 1.
	pop, err := GenerateAgents(cfg, newScriptedSource(9, 0, 19, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buyers := pop.Buyers()
	sellers := pop.Sellers()
	if buyers[0].Value != 10 || buyers[1].Value != 1 {
		t.Errorf("buyer values = %d, %d; want 10, 1", buyers[0].Value, buyers[1].Value)
	}
	if sellers[0].Value != 20 || sellers[1].Value != 5 {
		t.Errorf("seller values = %d, %d; want 20, 5", sellers[0].Value, sellers[1].Value)
	}
	for i, s := range sellers {
		if s.ID != domain.AgentID(i) || s.Role != domain.RoleSeller {
			t.Errorf("seller %d has id=%d role=%s", i, s.ID, s.Role)
		}
	}
}

func TestGenerateAgents_InvalidConfiguration(t *testing.T) {
	src := newScriptedSource(1, 2, 3)
	cfg := domain.MarketConfig{NumBuyers: 1, NumSellers: 1, MaxTrades: 1, MaxBuyerValue: 0, MaxSellerValue: 10}

	pop, err := GenerateAgents(cfg, src)
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if pop != nil {
		t.Fatal("expected no population on error")
	}
	if src.pos != 0 {
		t.Fatalf("expected no draws before validation, got %d", src.pos)
	}
}

func TestProperty_GeneratedPopulationShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := domain.MarketConfig{
			NumBuyers:      rapid.IntRange(1, 50).Draw(t, "numBuyers"),
			NumSellers:     rapid.IntRange(1, 50).Draw(t, "numSellers"),
			MaxTrades:      1,
			MaxBuyerValue:  rapid.IntRange(1, 100).Draw(t, "maxBuyerValue"),
			MaxSellerValue: rapid.IntRange(1, 100).Draw(t, "maxSellerValue"),
		}
		seed := rapid.Uint64Range(1, 1<<62).Draw(t, "seed")

		pop, err := GenerateAgents(cfg, NewSource(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pop.NumBuyers() != cfg.NumBuyers || pop.NumSellers() != cfg.NumSellers {
			t.Fatalf("population %d/%d, want %d/%d", pop.NumBuyers(), pop.NumSellers(), cfg.NumBuyers, cfg.NumSellers)
		}
		for _, b := range pop.Buyers() {
			if b.Value < 1 || b.Value > cfg.MaxBuyerValue {
				t.Fatalf("buyer value %d outside [1, %d]", b.Value, cfg.MaxBuyerValue)
			}
			if b.QuantityHeld != 0 || b.Price != 0 {
				t.Fatalf("fresh buyer should hold nothing: %+v", b)
			}
		}
		for _, s := range pop.Sellers() {
			if s.Value < 1 || s.Value > cfg.MaxSellerValue {
				t.Fatalf("seller value %d outside [1, %d]", s.Value, cfg.MaxSellerValue)
			}
			if s.QuantityHeld != 1 || s.Price != 0 {
				t.Fatalf("fresh seller should hold one unit: %+v", s)
			}
		}
	})
}
