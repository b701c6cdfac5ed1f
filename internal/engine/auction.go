package engine

import (
	"context"
	"sync/atomic"

	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/store"
)

// cancelCheckInterval is how many match attempts run between context checks.
const cancelCheckInterval = 1024

// Auction is the zero-intelligence matching loop. Every attempt samples one
// buyer and one seller uniformly with replacement; agents that already
// traded stay in the pool and simply fail the eligibility check.
//
// An Auction mutates its population and ledger in place and must only be
// driven from one goroutine. Attempts may be read concurrently.
type Auction struct {
	pop      *store.Population
	ledger   *store.Ledger
	src      Source
	attempts atomic.Int64
}

// NewAuction creates an auction over pop that records trades in ledger.
func NewAuction(pop *store.Population, ledger *store.Ledger, src Source) *Auction {
	return &Auction{pop: pop, ledger: ledger, src: src}
}

// Attempt performs a single match attempt. When the sampled pair can trade,
// the clearing price is drawn uniformly from [seller value, buyer value],
// both agents are settled and the trade is appended to the ledger.
func (a *Auction) Attempt() (domain.Trade, bool) {
	defer a.attempts.Add(1)

	buyerID := domain.AgentID(a.src.IntN(a.pop.NumBuyers()))
	sellerID := domain.AgentID(a.src.IntN(a.pop.NumSellers()))

	if !a.pop.Eligible(buyerID, sellerID) {
		return domain.Trade{}, false
	}

	buyer, _ := a.pop.Buyer(buyerID)
	seller, _ := a.pop.Seller(sellerID)
	price := intBetween(a.src, seller.Value, buyer.Value)

	if err := a.pop.Settle(buyerID, sellerID, price); err != nil {
		// Eligible was just checked on the same goroutine.
		panic(err)
	}

	trade := domain.Trade{Buyer: buyerID, Seller: sellerID, Quantity: 1, Price: price}
	a.ledger.Append(trade)
	return trade, true
}

// Run performs exactly maxTrades match attempts unless ctx is cancelled,
// in which case it stops between attempts and returns ctx.Err().
func (a *Auction) Run(ctx context.Context, maxTrades int) error {
	for i := 0; i < maxTrades; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		a.Attempt()
	}
	return nil
}

// Attempts returns the number of match attempts made so far.
func (a *Auction) Attempts() int {
	return int(a.attempts.Load())
}
