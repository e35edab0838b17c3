package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFixture(t *testing.T) []Item {
	t.Helper()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	items := []Item{
		testItem("i1", "101", "1", 1, PriorityBaixa, base),
		testItem("i2", "102", "2", 2, PriorityAlta, base.Add(2*time.Hour)),
		testItem("i3", "103", "1", 1, PriorityAlta, base.Add(time.Hour)),
		testItem("i4", "104", "2", 3, PriorityMedia, base.Add(3*time.Hour)),
	}
	items[3].Status = StatusComprado
	return items
}

func TestFilter(t *testing.T) {
	items := viewFixture(t)

	tests := []struct {
		name   string
		filter ItemFilter
		want   []string
	}{
		{"no filter matches all", ItemFilter{}, []string{"i1", "i2", "i3", "i4"}},
		{"by user", ItemFilter{UserID: "1"}, []string{"i1", "i3"}},
		{"by priority", ItemFilter{Priority: PriorityAlta}, []string{"i2", "i3"}},
		{"by status", ItemFilter{Status: StatusComprado}, []string{"i4"}},
		{"combined", ItemFilter{UserID: "2", Priority: PriorityAlta}, []string{"i2"}},
		{"no match", ItemFilter{UserID: "1", Status: StatusComprando}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(items, tc.filter)
			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestSortByPriority(t *testing.T) {
	items := viewFixture(t)
	sorted := SortByPriority(items)

	// alta before média before baixa; equal priorities ordered by DateAdded.
	ids := make([]string, 0, len(sorted))
	for _, it := range sorted {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"i3", "i2", "i4", "i1"}, ids)

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		require.GreaterOrEqual(t, prev.Priority.Rank(), cur.Priority.Rank())
		if prev.Priority == cur.Priority {
			require.False(t, prev.DateAdded.After(cur.DateAdded))
		}
	}

	// The input slice keeps its original order.
	assert.Equal(t, "i1", items[0].ID)
}

func TestGroupByStatus(t *testing.T) {
	items := viewFixture(t)
	items[0].Status = StatusComprando

	groups := GroupByStatus(SortByPriority(items))

	require.Len(t, groups, 3)
	assert.Equal(t, StatusAComprar, groups[0].Status)
	assert.Equal(t, StatusComprando, groups[1].Status)
	assert.Equal(t, StatusComprado, groups[2].Status)
	assert.Len(t, groups[0].Items, 2)
	assert.Len(t, groups[1].Items, 1)
	assert.Len(t, groups[2].Items, 1)
}

func TestGroupByStatusOmitsEmptyBuckets(t *testing.T) {
	items := []Item{testItem("i1", "101", "1", 1, PriorityBaixa, time.Now().UTC())}

	groups := GroupByStatus(items)

	require.Len(t, groups, 1)
	assert.Equal(t, StatusAComprar, groups[0].Status)
}

func TestLineTotal(t *testing.T) {
	p := Product{ID: "101", Name: "Maçãs", Category: CategoryAlimentos, Price: decimal.RequireFromString("5.50")}
	it := testItem("i1", "101", "1", 3, PriorityAlta, time.Now().UTC())

	assert.Equal(t, "16.50", LineTotal(p, it).StringFixed(2))

	it.Quantity = 1
	assert.Equal(t, "5.50", LineTotal(p, it).StringFixed(2))
}
