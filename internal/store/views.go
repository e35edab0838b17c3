package store

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ItemFilter selects shopping list items by equality on any combination of
// owner, priority and status. A zero field matches everything.
type ItemFilter struct {
	UserID   string
	Priority Priority
	Status   Status
}

// Filter returns the items matching f, preserving their order.
func Filter(items []Item, f ItemFilter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.UserID != "" && it.UserID != f.UserID {
			continue
		}
		if f.Priority != "" && it.Priority != f.Priority {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SortByPriority returns a copy of items ordered by priority descending
// (alta first), ties broken by DateAdded ascending.
func SortByPriority(items []Item) []Item {
	out := append([]Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		}
		return out[i].DateAdded.Before(out[j].DateAdded)
	})
	return out
}

// StatusGroup is one display bucket of the shopping list.
type StatusGroup struct {
	Status Status
	Items  []Item
}

// GroupByStatus partitions items into the display buckets "a comprar",
// "comprando" and "comprado", in that order. Empty buckets are omitted.
// Relative item order within a bucket is preserved, so grouping a sorted
// slice yields sorted buckets.
func GroupByStatus(items []Item) []StatusGroup {
	groups := make([]StatusGroup, 0, 3)
	for _, status := range Statuses() {
		bucket := Filter(items, ItemFilter{Status: status})
		if len(bucket) == 0 {
			continue
		}
		groups = append(groups, StatusGroup{Status: status, Items: bucket})
	}
	return groups
}

// LineTotal is the display value of an item: product price times quantity.
func LineTotal(p Product, it Item) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
