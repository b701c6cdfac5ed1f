package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/efreitasn/zitmarket/internal/domain"
)

// ComputeStatistics summarises a trade ledger.
//
// The average is the plain sum of trade prices divided by the total traded
// quantity, and the standard deviation is the sample form
// sqrt((Σp² − n·mean²) / (n−1)) with n the total quantity.
//
// When fewer than two units were traded the price moments are undefined:
// the returned Statistics still carries the counts and elapsed time, the
// price fields stay nil, and the error wraps domain.ErrInsufficientData.
func ComputeStatistics(trades []domain.Trade, elapsed time.Duration) (domain.Statistics, error) {
	stats := domain.Statistics{
		TradeCount: len(trades),
		Elapsed:    elapsed,
	}

	var totalPrice, totalPriceSq float64
	for _, t := range trades {
		stats.TotalQuantity += t.Quantity
		p := float64(t.Price)
		totalPrice += p
		totalPriceSq += p * p
	}

	if len(trades) == 0 || stats.TotalQuantity <= 1 {
		return stats, fmt.Errorf("%w: %d units traded, need at least 2", domain.ErrInsufficientData, stats.TotalQuantity)
	}

	n := float64(stats.TotalQuantity)
	mean := totalPrice / n
	variance := (totalPriceSq - n*mean*mean) / (n - 1)
	if variance < 0 {
		// Rounding can push an all-equal ledger slightly below zero.
		variance = 0
	}
	stdev := math.Sqrt(variance)

	stats.AveragePrice = &mean
	stats.PriceStdDev = &stdev
	return stats, nil
}
