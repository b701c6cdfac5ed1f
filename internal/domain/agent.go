package domain

// Role distinguishes buyers from sellers. It never changes after an agent
// is created.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// AgentID is a stable handle into a population. Buyers and sellers are
// numbered independently, starting at 0.
type AgentID int

// Agent is a single-unit zero-intelligence trader with a fixed private value.
// A buyer starts with QuantityHeld 0 and a seller with 1; a trade flips both,
// which also makes them ineligible for any further trade.
type Agent struct {
	ID           AgentID
	Role         Role
	Value        int // buyer: max willingness to pay; seller: min acceptable price
	QuantityHeld int
	Price        int // clearing price once traded, 0 before
}

// NewBuyer creates a buyer that wants one unit.
func NewBuyer(id AgentID, value int) Agent {
	return Agent{ID: id, Role: RoleBuyer, Value: value}
}

// NewSeller creates a seller holding one unit.
func NewSeller(id AgentID, value int) Agent {
	return Agent{ID: id, Role: RoleSeller, Value: value, QuantityHeld: 1}
}

// Traded reports whether the agent has completed its single trade.
func (a Agent) Traded() bool {
	if a.Role == RoleBuyer {
		return a.QuantityHeld > 0
	}
	return a.QuantityHeld == 0
}

// CanTrade reports whether a buyer and seller satisfy the double coincidence
// of wants: the seller still holds its unit, the buyer holds none, and the
// seller's reservation value does not exceed the buyer's.
func CanTrade(buyer, seller Agent) bool {
	return seller.QuantityHeld > 0 && buyer.QuantityHeld == 0 && seller.Value <= buyer.Value
}
