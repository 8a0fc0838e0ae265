package filter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdash/internal/dataset"
	"airdash/internal/model"
)

func listing(row int, group, hood, room string, price float64) model.Listing {
	return model.Listing{
		Row:                row,
		Name:               "listing",
		NeighbourhoodGroup: group,
		Neighbourhood:      hood,
		RoomType:           room,
		CancellationPolicy: "strict",
		Price:              model.Float(price),
		NoSmoking:          model.Bool(false),
		NoParty:            model.Bool(false),
		NoPet:              model.Bool(false),
	}
}

func fixture() []model.Listing {
	ls := []model.Listing{
		listing(0, "Brooklyn", "Williamsburg", "Entire home/apt", 150),
		listing(1, "Brooklyn", "Bushwick", "Private room", 60),
		listing(2, "Manhattan", "Harlem", "Private room", 95),
		listing(3, "Manhattan", "Chelsea", "Entire home/apt", 400),
		listing(4, "Queens", "Astoria", "Shared room", 40),
		listing(5, "Queens", "Astoria", "Private room", 70),
	}
	ls[1].NoSmoking = model.Bool(true)
	ls[2].NoPet = model.Bool(true)
	ls[3].NoParty = model.Bool(true)
	ls[4].NoSmoking = nil
	ls[5].CancellationPolicy = "flexible"
	ls[5].Price = nil
	return ls
}

func rows(ls []model.Listing) []int {
	out := make([]int, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Row)
	}
	return out
}

func openCriteria() model.FilterCriteria {
	return model.FilterCriteria{
		Groups:    []string{"Brooklyn", "Manhattan", "Queens"},
		RoomTypes: []string{"Entire home/apt", "Private room", "Shared room"},
		Price:     model.PriceRange{Min: 0, Max: 1000},
	}
}

func TestApplyEmptyOptionalSetsDoNotRestrict(t *testing.T) {
	got := Apply(fixture(), openCriteria())
	// Row 5 has no price and fails the price clause.
	assert.Equal(t, []int{0, 1, 2, 3, 4}, rows(got))
}

func TestApplyEmptyGroupsOrRoomTypesMatchNothing(t *testing.T) {
	ds := dataset.New("fixture", fixture())

	c := DefaultCriteria(ds)
	c.Groups = nil
	assert.Empty(t, Apply(ds.Listings, c))

	c = DefaultCriteria(ds)
	c.RoomTypes = []string{}
	assert.Empty(t, Apply(ds.Listings, c))
}

func TestApplyClauses(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.FilterCriteria)
		want   []int
	}{
		{"groups", func(c *model.FilterCriteria) { c.Groups = []string{"Manhattan"} }, []int{2, 3}},
		{"room types", func(c *model.FilterCriteria) { c.RoomTypes = []string{"Private room", "Shared room"} }, []int{1, 2, 4}},
		{"price inclusive", func(c *model.FilterCriteria) { c.Price = model.PriceRange{Min: 60, Max: 150} }, []int{0, 1, 2}},
		{"price empty range", func(c *model.FilterCriteria) { c.Price = model.PriceRange{Min: 500, Max: 100} }, []int{}},
		{"neighbourhoods", func(c *model.FilterCriteria) { c.Neighbourhoods = []string{"Astoria", "Harlem"} }, []int{2, 4}},
		{"policies", func(c *model.FilterCriteria) { c.CancellationPolicies = []string{"flexible"} }, []int{}},
		{"smoking allowed", func(c *model.FilterCriteria) { c.NoSmoking = model.Bool(false) }, []int{0, 2, 3}},
		{"parties allowed", func(c *model.FilterCriteria) { c.NoParty = model.Bool(false) }, []int{0, 1, 2, 4}},
		{"pets allowed", func(c *model.FilterCriteria) { c.NoPet = model.Bool(false) }, []int{0, 1, 3, 4}},
		{"no smoking required", func(c *model.FilterCriteria) { c.NoSmoking = model.Bool(true) }, []int{1}},
		{"combined", func(c *model.FilterCriteria) {
			c.Groups = []string{"Brooklyn", "Manhattan"}
			c.RoomTypes = []string{"Private room"}
			c.NoPet = model.Bool(false)
		}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openCriteria()
			tt.modify(&c)
			assert.Equal(t, tt.want, rows(Apply(fixture(), c)))
		})
	}
}

func TestApplyIsSubsetInInputOrder(t *testing.T) {
	input := fixture()
	byRow := make(map[int]model.Listing)
	for _, l := range input {
		byRow[l.Row] = l
	}

	c := openCriteria()
	c.RoomTypes = []string{"Private room", "Entire home/apt"}
	got := Apply(input, c)

	require.LessOrEqual(t, len(got), len(input))
	last := -1
	for _, l := range got {
		orig, ok := byRow[l.Row]
		require.True(t, ok)
		assert.Equal(t, orig, l)
		assert.Greater(t, l.Row, last)
		last = l.Row
	}
}

func TestPredicateOrderDoesNotMatter(t *testing.T) {
	c := openCriteria()
	c.Groups = []string{"Brooklyn", "Queens", "Manhattan"}
	c.RoomTypes = []string{"Private room", "Shared room", "Entire home/apt"}
	c.Price = model.PriceRange{Min: 40, Max: 200}
	c.NoParty = model.Bool(false)

	preds := Predicates(c)
	want := rows(ApplyPredicates(fixture(), preds))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Predicate(nil), preds...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, rows(ApplyPredicates(fixture(), shuffled)))
	}
}

func TestPredicatesSkipInactiveClauses(t *testing.T) {
	names := func(c model.FilterCriteria) []string {
		out := make([]string, 0)
		for _, p := range Predicates(c) {
			out = append(out, p.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"neighbourhood group", "room type", "price"}, names(openCriteria()))
	assert.ElementsMatch(t, []string{"neighbourhood group", "room type", "price"}, names(model.FilterCriteria{}),
		"group and room type clauses stay when their sets are empty")

	c := openCriteria()
	c.Neighbourhoods = []string{"Harlem"}
	c.NoPet = model.Bool(false)
	assert.ElementsMatch(t, []string{"neighbourhood group", "room type", "price", "neighbourhood", "no pet"}, names(c))
}

func TestApplyIsIdempotent(t *testing.T) {
	c := openCriteria()
	c.Groups = []string{"Brooklyn", "Queens"}
	once := Apply(fixture(), c)
	twice := Apply(once, c)
	assert.Equal(t, once, twice)
}

func TestDefaultCriteriaKeepsEveryPricedListing(t *testing.T) {
	ds := dataset.New("fixture", fixture())
	c := DefaultCriteria(ds)

	assert.Equal(t, []string{"Brooklyn", "Manhattan", "Queens"}, c.Groups)
	assert.Empty(t, c.Neighbourhoods)
	assert.Nil(t, c.NoSmoking)
	assert.Equal(t, model.PriceRange{Min: 40, Max: 400}, c.Price)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, rows(Apply(ds.Listings, c)))
}

func TestDescribe(t *testing.T) {
	c := openCriteria()
	c.Groups = []string{"Brooklyn"}
	c.NoSmoking = model.Bool(false)
	c.NoPet = model.Bool(true)
	assert.Equal(t, "price 0-1000, 1 groups, 3 room types, smoking allowed, no pets", Describe(c))
}
