package store

import (
	"fmt"

	"github.com/efreitasn/zitmarket/internal/domain"
)

// Population is an indexed arena holding the buyers and sellers of one run.
// Agents are addressed by domain.AgentID handles into their side's slice, so
// trades can refer to them without aliasing live values.
//
// Population is owned by a single run and is not safe for concurrent use
// while the run mutates it. Once the run finishes it is treated as read-only.
type Population struct {
	buyers  []domain.Agent
	sellers []domain.Agent
}

// NewPopulation creates a population from freshly generated agents. The
// slices are taken over by the population.
func NewPopulation(buyers, sellers []domain.Agent) *Population {
	return &Population{buyers: buyers, sellers: sellers}
}

// NumBuyers returns the number of buyers.
func (p *Population) NumBuyers() int { return len(p.buyers) }

// NumSellers returns the number of sellers.
func (p *Population) NumSellers() int { return len(p.sellers) }

// Buyer returns the buyer with the given handle.
func (p *Population) Buyer(id domain.AgentID) (domain.Agent, bool) {
	if int(id) < 0 || int(id) >= len(p.buyers) {
		return domain.Agent{}, false
	}
	return p.buyers[id], true
}

// Seller returns the seller with the given handle.
func (p *Population) Seller(id domain.AgentID) (domain.Agent, bool) {
	if int(id) < 0 || int(id) >= len(p.sellers) {
		return domain.Agent{}, false
	}
	return p.sellers[id], true
}

// Buyers returns a copy of all buyers in handle order.
func (p *Population) Buyers() []domain.Agent {
	out := make([]domain.Agent, len(p.buyers))
	copy(out, p.buyers)
	return out
}

// Sellers returns a copy of all sellers in handle order.
func (p *Population) Sellers() []domain.Agent {
	out := make([]domain.Agent, len(p.sellers))
	copy(out, p.sellers)
	return out
}

// Eligible reports whether the given buyer and seller can trade right now.
// Both handles must be in range.
func (p *Population) Eligible(buyer, seller domain.AgentID) bool {
	return domain.CanTrade(p.buyers[buyer], p.sellers[seller])
}

// Settle marks the pair as transacted at price: the unit moves from the
// seller to the buyer and both record the clearing price. It returns an
// error if the pair is not eligible, leaving both agents untouched.
func (p *Population) Settle(buyer, seller domain.AgentID, price int) error {
	if !p.Eligible(buyer, seller) {
		return fmt.Errorf("settle buyer %d with seller %d: pair is not eligible", buyer, seller)
	}
	b := &p.buyers[buyer]
	s := &p.sellers[seller]
	b.QuantityHeld = 1
	s.QuantityHeld = 0
	b.Price = price
	s.Price = price
	return nil
}
