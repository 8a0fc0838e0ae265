package model

// Listing represents one rentable property from the dataset.
type Listing struct {
	Row                int // position in the source file, 0-based; identity within a dataset
	ID                 string
	Name               string
	HostName           string
	Neighbourhood      string
	NeighbourhoodGroup string
	RoomType           string
	Price              *float64
	CancellationPolicy string
	Latitude           *float64
	Longitude          *float64
	NumberOfReviews    *int
	ReviewRate         *float64
	Availability365    *int // days per year, 0-365
	NoSmoking          *bool
	NoParty            *bool
	NoPet              *bool
	HouseRules         string
}

// PriceRange is an inclusive price bound.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterCriteria describes which listings are kept.
// Empty Groups or RoomTypes match nothing; empty Neighbourhoods or
// CancellationPolicies do not restrict.
// A nil house-rule requirement is not enforced.
type FilterCriteria struct {
	Groups               []string
	Neighbourhoods       []string
	RoomTypes            []string
	CancellationPolicies []string
	Price                PriceRange

	NoSmoking *bool
	NoParty   *bool
	NoPet     *bool
}

// Clone returns a deep copy so history entries never share backing arrays.
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	out.Groups = cloneStrings(c.Groups)
	out.Neighbourhoods = cloneStrings(c.Neighbourhoods)
	out.RoomTypes = cloneStrings(c.RoomTypes)
	out.CancellationPolicies = cloneStrings(c.CancellationPolicies)
	out.NoSmoking = cloneBool(c.NoSmoking)
	out.NoParty = cloneBool(c.NoParty)
	out.NoPet = cloneBool(c.NoPet)
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}
