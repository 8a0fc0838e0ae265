package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdash/internal/model"
)

func tableRows(m *ListingsModel) []int {
	out := make([]int, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r.Row)
	}
	return out
}

func TestListingsSortByPrice(t *testing.T) {
	m := NewListingsModel(testListings())
	require.True(t, m.JumpToColumn(6))

	m.SortActiveColumn(true)
	assert.Equal(t, []int{2, 0, 1}, tableRows(m))

	m.SortActiveColumn(false)
	assert.Equal(t, []int{1, 0, 2}, tableRows(m))
}

func TestListingsSortKeepsStateAcrossSetRows(t *testing.T) {
	m := NewListingsModel(testListings())
	m.JumpToColumn(6)
	m.SortActiveColumn(true)

	m.SetRows(testListings()[:2])
	assert.Equal(t, []int{0, 1}, tableRows(m))
}

func TestListingsFilterBySelectedValue(t *testing.T) {
	m := NewListingsModel(testListings())
	m.JumpToColumn(3)

	require.True(t, m.FilterBySelectedValue())
	assert.Equal(t, []int{0, 1}, tableRows(m))

	require.True(t, m.ClearFilter())
	assert.Equal(t, []int{0, 1, 2}, tableRows(m))
	assert.False(t, m.ClearFilter())
}

func TestListingsHideColumns(t *testing.T) {
	m := NewListingsModel(testListings())
	for i := 0; i < len(m.columns)-1; i++ {
		require.True(t, m.HideActiveColumn())
	}
	assert.False(t, m.HideActiveColumn(), "last visible column stays")

	m.ShowAllColumns()
	assert.Len(t, m.visibleColumnIndexes(), len(m.columns))
}

func TestListingsCursorClampsOnShrink(t *testing.T) {
	m := NewListingsModel(testListings())
	m.JumpToBottom()
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, sel.Row)

	m.SetRows(testListings()[:1])
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, sel.Row)

	m.SetRows(nil)
	_, ok = m.Selected()
	assert.False(t, ok)
}

func TestListingsMissingValuesSortFirstAscending(t *testing.T) {
	ls := testListings()
	ls[1].Price = nil
	m := NewListingsModel(ls)
	m.JumpToColumn(6)
	m.SortActiveColumn(false)
	assert.Equal(t, []int{1, 0, 2}, tableRows(m))
}

func TestListingsView(t *testing.T) {
	m := NewListingsModel(testListings())
	out := m.View(140, 30)
	assert.Contains(t, out, "Sunny Loft")
	assert.Contains(t, out, "NAME")

	empty := NewListingsModel(nil)
	assert.Contains(t, empty.View(100, 20), "No listings match your filter criteria.")
}

func TestListingDetailView(t *testing.T) {
	l := testListings()[2]
	out := NewListingDetailModel(l).View(100, 40)
	assert.Contains(t, out, "Harlem")
	assert.Contains(t, out, "No description available.")
	assert.Contains(t, out, "no smoking")

	l.ID = "1001"
	l.HouseRules = "Quiet after 10pm"
	out = NewListingDetailModel(l).View(100, 40)
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "Quiet after 10pm")
}

func TestRenderHomeEmpty(t *testing.T) {
	out := renderHome(model.Listing{}, false, 0, 3, model.FilterCriteria{}, 100, 30)
	assert.Contains(t, out, "No listings match your filter criteria.")
	assert.Contains(t, out, "0 of 3 listings match")
}
