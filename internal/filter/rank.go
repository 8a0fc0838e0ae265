package filter

import (
	"sort"

	"airdash/internal/model"
)

// Less orders a before b when it has a higher review rate, then more reviews,
// then a lower price. Missing values lose against present ones on every key.
func Less(a, b model.Listing) bool {
	if c := compareFloat(a.ReviewRate, b.ReviewRate, true); c != 0 {
		return c < 0
	}
	if c := compareInt(a.NumberOfReviews, b.NumberOfReviews); c != 0 {
		return c < 0
	}
	return compareFloat(a.Price, b.Price, false) < 0
}

// Rank returns a copy of listings ordered by Less. Equal listings keep their
// input order.
func Rank(listings []model.Listing) []model.Listing {
	out := append([]model.Listing(nil), listings...)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Best returns the top ranked listing. ok is false when listings is empty.
func Best(listings []model.Listing) (model.Listing, bool) {
	if len(listings) == 0 {
		return model.Listing{}, false
	}
	best := listings[0]
	for _, l := range listings[1:] {
		if Less(l, best) {
			best = l
		}
	}
	return best, true
}

// compareFloat returns -1 when a ranks first. desc selects higher-is-better.
func compareFloat(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a == *b:
		return 0
	case (*a > *b) == desc:
		return -1
	default:
		return 1
	}
}

func compareInt(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}
