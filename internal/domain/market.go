package domain

import "fmt"

// MarketConfig holds the parameters of a single simulation run. All fields
// must be >= 1 and stay fixed for the duration of the run.
type MarketConfig struct {
	NumBuyers      int
	NumSellers     int
	MaxTrades      int
	MaxBuyerValue  int
	MaxSellerValue int
	Seed           uint64 // 0 means non-deterministic
}

// Limits bounds the sizes a run may allocate. A non-positive field leaves
// that dimension uncapped.
type Limits struct {
	MaxAgentsPerSide int
	MaxTrades        int
}

// DefaultLimits keeps a single run's population and ledger within a few
// hundred megabytes.
var DefaultLimits = Limits{
	MaxAgentsPerSide: 1_000_000,
	MaxTrades:        10_000_000,
}

// Validate checks the configuration against DefaultLimits.
func (c MarketConfig) Validate() error {
	return c.ValidateWithin(DefaultLimits)
}

// ValidateWithin checks every count and cap, returning the first offending
// field as a *ValidationError.
func (c MarketConfig) ValidateWithin(l Limits) error {
	fields := []struct {
		name  string
		value int
		max   int
	}{
		{"num_buyers", c.NumBuyers, l.MaxAgentsPerSide},
		{"num_sellers", c.NumSellers, l.MaxAgentsPerSide},
		{"max_trades", c.MaxTrades, l.MaxTrades},
		{"max_buyer_value", c.MaxBuyerValue, 0},
		{"max_seller_value", c.MaxSellerValue, 0},
	}
	for _, f := range fields {
		if f.value < 1 {
			return &ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s must be >= 1, got %d", f.name, f.value),
			}
		}
		if f.max > 0 && f.value > f.max {
			return &ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s must be <= %d, got %d", f.name, f.max, f.value),
			}
		}
	}
	return nil
}
