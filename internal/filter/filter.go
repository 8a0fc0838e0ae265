// Package filter selects listings by a conjunction of criteria clauses and
// ranks the survivors.
package filter

import (
	"fmt"
	"strings"

	"airdash/internal/dataset"
	"airdash/internal/model"
)

// Predicate is one named clause of a filter.
type Predicate struct {
	Name  string
	Match func(model.Listing) bool
}

// Predicates returns the active clauses for c.
//
// The neighbourhood group, room type and price clauses are always present, so
// an empty group or room-type set matches nothing. Neighbourhoods and
// cancellation policies only restrict when non-empty, and unset house-rule
// requirements are left out. The cancellation-policy clause goes beyond the
// dashboard's core clauses and is only narrowed from the filter panel.
func Predicates(c model.FilterCriteria) []Predicate {
	preds := []Predicate{
		requireMember("neighbourhood group", c.Groups, func(l model.Listing) string { return l.NeighbourhoodGroup }),
		requireMember("room type", c.RoomTypes, func(l model.Listing) string { return l.RoomType }),
	}

	if p, ok := memberOf("cancellation policy", c.CancellationPolicies, func(l model.Listing) string { return l.CancellationPolicy }); ok {
		preds = append(preds, p)
	}

	price := c.Price
	preds = append(preds, Predicate{
		Name: "price",
		Match: func(l model.Listing) bool {
			return l.Price != nil && price.Contains(*l.Price)
		},
	})

	if p, ok := memberOf("neighbourhood", c.Neighbourhoods, func(l model.Listing) string { return l.Neighbourhood }); ok {
		preds = append(preds, p)
	}

	if p, ok := requireFlag("no smoking", c.NoSmoking, func(l model.Listing) *bool { return l.NoSmoking }); ok {
		preds = append(preds, p)
	}
	if p, ok := requireFlag("no party", c.NoParty, func(l model.Listing) *bool { return l.NoParty }); ok {
		preds = append(preds, p)
	}
	if p, ok := requireFlag("no pet", c.NoPet, func(l model.Listing) *bool { return l.NoPet }); ok {
		preds = append(preds, p)
	}

	return preds
}

// requireMember matches listings whose field is in allowed. An empty allowed
// set matches nothing.
func requireMember(name string, allowed []string, field func(model.Listing) string) Predicate {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return Predicate{
		Name: name,
		Match: func(l model.Listing) bool {
			_, ok := set[field(l)]
			return ok
		},
	}
}

// memberOf is requireMember for optional sets: an empty set is no clause.
func memberOf(name string, allowed []string, field func(model.Listing) string) (Predicate, bool) {
	if len(allowed) == 0 {
		return Predicate{}, false
	}
	return requireMember(name, allowed, field), true
}

// requireFlag matches listings whose flag equals want. A listing with an
// unknown flag never satisfies an enforced requirement.
func requireFlag(name string, want *bool, field func(model.Listing) *bool) (Predicate, bool) {
	if want == nil {
		return Predicate{}, false
	}
	w := *want
	return Predicate{
		Name: name,
		Match: func(l model.Listing) bool {
			v := field(l)
			return v != nil && *v == w
		},
	}, true
}

// Matches reports whether l satisfies every predicate.
func Matches(l model.Listing, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Match(l) {
			return false
		}
	}
	return true
}

// ApplyPredicates returns the listings satisfying every predicate, in input order.
func ApplyPredicates(listings []model.Listing, preds []Predicate) []model.Listing {
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, preds) {
			out = append(out, l)
		}
	}
	return out
}

// Apply returns the subset of listings matching c.
func Apply(listings []model.Listing, c model.FilterCriteria) []model.Listing {
	return ApplyPredicates(listings, Predicates(c))
}

// DefaultCriteria selects every option of ds, spans its whole price range and
// enforces no house rule.
func DefaultCriteria(ds *dataset.Dataset) model.FilterCriteria {
	c := model.FilterCriteria{
		Groups:               append([]string(nil), ds.Groups()...),
		RoomTypes:            append([]string(nil), ds.RoomTypes()...),
		CancellationPolicies: append([]string(nil), ds.CancellationPolicies()...),
	}
	if bounds, ok := ds.PriceBounds(); ok {
		c.Price = bounds
	}
	return c
}

// Describe summarises the clauses of c on one line.
func Describe(c model.FilterCriteria) string {
	parts := []string{
		fmt.Sprintf("price %.0f-%.0f", c.Price.Min, c.Price.Max),
		fmt.Sprintf("%d groups", len(c.Groups)),
		fmt.Sprintf("%d room types", len(c.RoomTypes)),
	}
	if n := len(c.CancellationPolicies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d policies", n))
	}
	if n := len(c.Neighbourhoods); n > 0 {
		parts = append(parts, fmt.Sprintf("%d neighbourhoods", n))
	}
	for _, r := range []struct {
		label string
		want  *bool
	}{
		{"smoking", c.NoSmoking},
		{"parties", c.NoParty},
		{"pets", c.NoPet},
	} {
		if r.want == nil {
			continue
		}
		if *r.want {
			parts = append(parts, "no "+r.label)
		} else {
			parts = append(parts, r.label+" allowed")
		}
	}
	return strings.Join(parts, ", ")
}
