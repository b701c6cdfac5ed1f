package engine

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/efreitasn/zitmarket/internal/domain"
)

// FormatMessage renders the multi-line run summary shown to the host.
// Values are rounded to two decimals; undefined price moments read "n/a".
func FormatMessage(stats domain.Statistics) string {
	var b strings.Builder
	b.WriteString("Total Trades: " + humanize.Comma(int64(stats.TradeCount)) + "\n")
	b.WriteString("Average Price: " + formatOptional(stats.AveragePrice) + "\n")
	b.WriteString("Stdev: " + formatOptional(stats.PriceStdDev) + "\n")
	b.WriteString("Elapsed time: " + formatFloat(stats.Elapsed.Seconds()) + " seconds.\n")
	return b.String()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
