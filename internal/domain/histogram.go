package domain

// Category labels a histogram series.
type Category string

const (
	CategoryBid    Category = "Bid"    // buyers that bought, keyed by their price
	CategoryAsk    Category = "Ask"    // sellers that sold, keyed by their price
	CategoryActual Category = "Actual" // trades, weighted by quantity
)

// Categories lists every histogram category in presentation order.
var Categories = []Category{CategoryBid, CategoryAsk, CategoryActual}

// HistogramEntry is the accumulated frequency for one (price, category) pair.
type HistogramEntry struct {
	Price     int
	Category  Category
	Frequency int
}
