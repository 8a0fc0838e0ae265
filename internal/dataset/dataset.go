package dataset

import (
	"math"

	"airdash/internal/model"
)

// Dataset is an ordered, read-only collection of listings sharing one schema.
type Dataset struct {
	Source   string
	Listings []model.Listing

	groups         []string
	neighbourhoods []string
	roomTypes      []string
	policies       []string
	price          model.PriceRange
	hasPrice       bool
}

// New wraps listings and precomputes the filter option lists.
func New(source string, listings []model.Listing) *Dataset {
	d := &Dataset{Source: source, Listings: listings}
	d.groups = distinct(listings, func(l model.Listing) string { return l.NeighbourhoodGroup })
	d.neighbourhoods = distinct(listings, func(l model.Listing) string { return l.Neighbourhood })
	d.roomTypes = distinct(listings, func(l model.Listing) string { return l.RoomType })
	d.policies = distinct(listings, func(l model.Listing) string { return l.CancellationPolicy })

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range listings {
		if l.Price == nil {
			continue
		}
		lo = math.Min(lo, *l.Price)
		hi = math.Max(hi, *l.Price)
		d.hasPrice = true
	}
	if d.hasPrice {
		d.price = model.PriceRange{Min: math.Floor(lo), Max: math.Ceil(hi)}
	}
	return d
}

// Len returns the number of listings.
func (d *Dataset) Len() int { return len(d.Listings) }

// Groups returns distinct neighbourhood groups in first-appearance order.
func (d *Dataset) Groups() []string { return d.groups }

// Neighbourhoods returns distinct neighbourhoods in first-appearance order.
func (d *Dataset) Neighbourhoods() []string { return d.neighbourhoods }

// RoomTypes returns distinct room types in first-appearance order.
func (d *Dataset) RoomTypes() []string { return d.roomTypes }

// CancellationPolicies returns distinct policies in first-appearance order.
func (d *Dataset) CancellationPolicies() []string { return d.policies }

// PriceBounds returns the whole-number range covering every observed price.
// ok is false when no listing carries a price.
func (d *Dataset) PriceBounds() (model.PriceRange, bool) {
	return d.price, d.hasPrice
}

// distinct keeps blank values so that "everything selected" covers listings
// with a missing category.
func distinct(listings []model.Listing, key func(model.Listing) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range listings {
		k := key(l)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
