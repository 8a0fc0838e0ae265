package filter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdash/internal/model"
)

func ranked(row int, rate *float64, reviews *int, price *float64) model.Listing {
	return model.Listing{Row: row, ReviewRate: rate, NumberOfReviews: reviews, Price: price}
}

func TestBestPrefersReviewRate(t *testing.T) {
	ls := []model.Listing{
		ranked(0, model.Float(4), model.Int(500), model.Float(50)),
		ranked(1, model.Float(5), model.Int(1), model.Float(900)),
	}
	best, ok := Best(ls)
	require.True(t, ok)
	assert.Equal(t, 1, best.Row)
}

func TestBestBreaksTiesByReviewsThenPrice(t *testing.T) {
	ls := []model.Listing{
		ranked(0, model.Float(5), model.Int(10), model.Float(100)),
		ranked(1, model.Float(5), model.Int(30), model.Float(300)),
		ranked(2, model.Float(5), model.Int(30), model.Float(120)),
	}
	best, ok := Best(ls)
	require.True(t, ok)
	assert.Equal(t, 2, best.Row)
}

func TestBestEmptyIsNoResult(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	_, ok = Best(Apply(fixture(), model.FilterCriteria{Price: model.PriceRange{Min: 5000, Max: 6000}}))
	assert.False(t, ok)
}

func TestRankMissingValuesSortLast(t *testing.T) {
	ls := []model.Listing{
		ranked(0, nil, model.Int(100), model.Float(10)),
		ranked(1, model.Float(1), nil, model.Float(10)),
		ranked(2, model.Float(1), model.Int(2), nil),
		ranked(3, model.Float(1), model.Int(2), model.Float(80)),
	}
	assert.Equal(t, []int{3, 2, 1, 0}, rows(Rank(ls)))
}

func TestRankKeepsInputOrderForEqualListings(t *testing.T) {
	ls := []model.Listing{
		ranked(0, model.Float(3), model.Int(3), model.Float(30)),
		ranked(1, model.Float(3), model.Int(3), model.Float(30)),
		ranked(2, model.Float(4), model.Int(3), model.Float(30)),
	}
	assert.Equal(t, []int{2, 0, 1}, rows(Rank(ls)))

	best, ok := Best(ls[:2])
	require.True(t, ok)
	assert.Equal(t, 0, best.Row)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	ls := []model.Listing{
		ranked(0, model.Float(1), model.Int(1), model.Float(1)),
		ranked(1, model.Float(5), model.Int(1), model.Float(1)),
	}
	_ = Rank(ls)
	assert.Equal(t, []int{0, 1}, rows(ls))
}

func TestBestMatchesRankHead(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ls := make([]model.Listing, 50)
	for i := range ls {
		var rate *float64
		if rng.Intn(5) > 0 {
			rate = model.Float(float64(rng.Intn(5) + 1))
		}
		var reviews *int
		if rng.Intn(5) > 0 {
			reviews = model.Int(rng.Intn(4))
		}
		var price *float64
		if rng.Intn(5) > 0 {
			price = model.Float(float64(rng.Intn(3) * 50))
		}
		ls[i] = ranked(i, rate, reviews, price)
	}

	best, ok := Best(ls)
	require.True(t, ok)
	assert.Equal(t, Rank(ls)[0], best)

	// Shuffling the input may change which equal listing wins, never its keys.
	shuffled := append([]model.Listing(nil), ls...)
	rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
	other, _ := Best(shuffled)
	assert.False(t, Less(best, other))
	assert.False(t, Less(other, best))
}
