package domain

// Trade represents one executed match. It refers to agents by handle, so the
// ledger stays valid no matter how the population is mutated afterwards.
type Trade struct {
	Buyer    AgentID
	Seller   AgentID
	Quantity int // always 1 in this model
	Price    int
}
