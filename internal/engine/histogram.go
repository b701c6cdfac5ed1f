package engine

import (
	"github.com/efreitasn/zitmarket/internal/domain"
	"github.com/efreitasn/zitmarket/internal/store"
	"github.com/google/btree"
)

// categoryRank orders categories at the same price.
var categoryRank = map[domain.Category]int{
	domain.CategoryBid:    0,
	domain.CategoryAsk:    1,
	domain.CategoryActual: 2,
}

// rankOf places unrecognised categories after the known ones.
func rankOf(c domain.Category) int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return len(categoryRank)
}

// histogramLess orders entries by price ascending, then category rank, then
// category name. The frequency is not part of the key, so each distinct
// (price, category) pair occupies exactly one slot in the tree.
func histogramLess(a, b domain.HistogramEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if ra, rb := rankOf(a.Category), rankOf(b.Category); ra != rb {
		return ra < rb
	}
	return a.Category < b.Category
}

// Histogram accumulates per-category price frequencies in a B-tree keyed by
// (price, category).
type Histogram struct {
	tree   *btree.BTreeG[domain.HistogramEntry]
	totals map[domain.Category]int
}

// NewHistogram creates an empty Histogram.
func NewHistogram() *Histogram {
	const degree = 16
	return &Histogram{
		tree:   btree.NewG[domain.HistogramEntry](degree, histogramLess),
		totals: make(map[domain.Category]int, len(domain.Categories)),
	}
}

// Add increments the entry for (price, category) by n, creating it on first use.
func (h *Histogram) Add(price int, category domain.Category, n int) {
	key := domain.HistogramEntry{Price: price, Category: category}
	if existing, ok := h.tree.Get(key); ok {
		key.Frequency = existing.Frequency
	}
	key.Frequency += n
	h.tree.ReplaceOrInsert(key)
	h.totals[category] += n
}

// Entries returns every entry ordered by price ascending.
func (h *Histogram) Entries() []domain.HistogramEntry {
	out := make([]domain.HistogramEntry, 0, h.tree.Len())
	h.tree.Ascend(func(e domain.HistogramEntry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Len returns the number of distinct (price, category) entries.
func (h *Histogram) Len() int {
	return h.tree.Len()
}

// Total returns the summed frequency of a category.
func (h *Histogram) Total(category domain.Category) int {
	return h.totals[category]
}

// BuildHistogram aggregates the final state of a run: one Bid per buyer
// that bought, one Ask per seller that sold, each keyed by the agent's
// price, and one Actual per trade weighted by its quantity.
func BuildHistogram(pop *store.Population, trades []domain.Trade) *Histogram {
	h := NewHistogram()
	for _, b := range pop.Buyers() {
		if b.QuantityHeld > 0 {
			h.Add(b.Price, domain.CategoryBid, 1)
		}
	}
	for _, s := range pop.Sellers() {
		if s.QuantityHeld == 0 {
			h.Add(s.Price, domain.CategoryAsk, 1)
		}
	}
	for _, t := range trades {
		h.Add(t.Price, domain.CategoryActual, t.Quantity)
	}
	return h
}
