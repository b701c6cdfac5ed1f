package store

import "github.com/efreitasn/zitmarket/internal/domain"

// Ledger is the append-only record of trades executed in one run, in the
// order they were executed. Like Population it belongs to a single run.
type Ledger struct {
	trades        []domain.Trade
	totalQuantity int
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{trades: []domain.Trade{}}
}

// Append records an executed trade.
func (l *Ledger) Append(t domain.Trade) {
	l.trades = append(l.trades, t)
	l.totalQuantity += t.Quantity
}

// Len returns the number of trades.
func (l *Ledger) Len() int { return len(l.trades) }

// TotalQuantity returns the sum of traded quantities.
func (l *Ledger) TotalQuantity() int { return l.totalQuantity }

// Trades returns all trades in execution order.
// Returns an empty slice if nothing was traded.
func (l *Ledger) Trades() []domain.Trade {
	// Return a copy to avoid callers mutating the internal slice.
	result := make([]domain.Trade, len(l.trades))
	copy(result, l.trades)
	return result
}

// Page returns trades in execution order for a 1-based page of the given
// size, together with the total number of trades.
func (l *Ledger) Page(page, limit int) ([]domain.Trade, int) {
	total := len(l.trades)
	if page < 1 || limit < 1 {
		return []domain.Trade{}, total
	}

	// Bound page before multiplying so (page-1)*limit cannot overflow.
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	if page > pages {
		return []domain.Trade{}, total
	}

	start := (page - 1) * limit
	end := start + min(limit, total-start)

	result := make([]domain.Trade, end-start)
	copy(result, l.trades[start:end])
	return result, total
}
