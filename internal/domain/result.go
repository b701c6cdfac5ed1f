package domain

import "time"

// Statistics summarises a trade ledger. AveragePrice and PriceStdDev are nil
// when there are fewer than two traded units.
type Statistics struct {
	TradeCount    int
	TotalQuantity int
	AveragePrice  *float64
	PriceStdDev   *float64
	Elapsed       time.Duration
}

// Result is the read-only record published at the end of a run.
type Result struct {
	RunID      string
	Config     MarketConfig
	Stats      Statistics
	StatsErr   error // ErrInsufficientData when price moments are undefined
	Histogram  []HistogramEntry
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunStatus is a point-in-time view of the simulator.
type RunStatus struct {
	Running  bool
	Progress float64 // fraction of MaxTrades attempts made, in [0, 1]
	RunID    string
}
