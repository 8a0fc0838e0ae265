package dataset

import (
	"fmt"
	"strings"
)

// Normalised column names. Headers in the file are matched after NormalizeColumn,
// so "NAME", "cancellation_policy" and "Availability 365" all resolve.
const (
	ColID                 = "id"
	ColName               = "name"
	ColHostName           = "host name"
	ColNeighbourhoodGroup = "neighbourhood group"
	ColNeighbourhood      = "neighbourhood"
	ColRoomType           = "room type"
	ColPrice              = "price"
	ColCancellation       = "cancellation policy"
	ColLatitude           = "lat"
	ColLongitude          = "long"
	ColReviews            = "number of reviews"
	ColReviewRate         = "review rate number"
	ColAvailability       = "availability 365"
	ColNoSmoking          = "no smoking"
	ColNoParty            = "no party"
	ColNoPet              = "no pet"
	ColHouseRules         = "house rules"
)

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{
	ColName,
	ColHostName,
	ColNeighbourhoodGroup,
	ColNeighbourhood,
	ColRoomType,
	ColPrice,
	ColCancellation,
	ColLatitude,
	ColLongitude,
	ColReviews,
	ColReviewRate,
	ColAvailability,
	ColNoSmoking,
	ColNoParty,
	ColNoPet,
}

// OptionalColumns are read when present.
var OptionalColumns = []string{ColID, ColHouseRules}

// NormalizeColumn lower-cases a header and collapses underscores and runs of
// whitespace into single spaces.
func NormalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.ReplaceAll(name, "_", " "))
	return strings.Join(strings.Fields(name), " ")
}

// SchemaError reports input that does not fit the listings schema: missing or
// duplicated columns, rows that cannot be split, or cells that cannot be parsed.
type SchemaError struct {
	Source    string
	Missing   []string
	Duplicate string
	Line      int
	Column    string
	Value     string
	Reason    string
}

func (e *SchemaError) Error() string {
	src := e.Source
	if src == "" {
		src = "dataset"
	}
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("schema: %s: missing required columns: %s", src, strings.Join(e.Missing, ", "))
	case e.Duplicate != "":
		return fmt.Sprintf("schema: %s: duplicate column %q", src, e.Duplicate)
	case e.Column != "":
		return fmt.Sprintf("schema: %s:%d: column %q: %s (%q)", src, e.Line, e.Column, e.Reason, e.Value)
	case e.Line > 0:
		return fmt.Sprintf("schema: %s:%d: %s", src, e.Line, e.Reason)
	default:
		return fmt.Sprintf("schema: %s: %s", src, e.Reason)
	}
}

// checkHeader validates normalised header names against the required set.
func checkHeader(source string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if seen[n] {
			return &SchemaError{Source: source, Duplicate: n}
		}
		seen[n] = true
	}

	var missing []string
	for _, req := range RequiredColumns {
		if !seen[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: source, Missing: missing}
	}
	return nil
}
