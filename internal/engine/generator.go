package engine

import (
	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/store"
)

// GenerateAgents builds a fresh population of cfg.NumBuyers buyers with
// values uniform in [1, cfg.MaxBuyerValue] and cfg.NumSellers sellers with
// values uniform in [1, cfg.MaxSellerValue]. Buyers are drawn first, then
// sellers, each in handle order.
//
// Counts and caps must be positive; size limits are enforced by the caller.
// On error nothing is drawn or built.
func GenerateAgents(cfg domain.MarketConfig, src Source) (*store.Population, error) {
	if err := cfg.ValidateWithin(domain.Limits{}); err != nil {
		return nil, err
	}

	buyers := make([]domain.Agent, cfg.NumBuyers)
	for i := range buyers {
		buyers[i] = domain.NewBuyer(domain.AgentID(i), intBetween(src, 1, cfg.MaxBuyerValue))
	}

	sellers := make([]domain.Agent, cfg.NumSellers)
	for i := range sellers {
		sellers[i] = domain.NewSeller(domain.AgentID(i), intBetween(src, 1, cfg.MaxSellerValue))
	}

	return store.NewPopulation(buyers, sellers), nil
}
