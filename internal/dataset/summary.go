package dataset

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"

	"airdash/internal/model"
)

// ColumnSummary holds describe-style statistics for one numeric column.
// Statistics are NaN when Count is zero.
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

type numericColumn struct {
	name  string
	value func(model.Listing) (float64, bool)
}

var summaryColumns = []numericColumn{
	{ColPrice, func(l model.Listing) (float64, bool) { return deref(l.Price) }},
	{ColReviews, func(l model.Listing) (float64, bool) { return derefInt(l.NumberOfReviews) }},
	{ColReviewRate, func(l model.Listing) (float64, bool) { return deref(l.ReviewRate) }},
	{ColAvailability, func(l model.Listing) (float64, bool) { return derefInt(l.Availability365) }},
	{ColLatitude, func(l model.Listing) (float64, bool) { return deref(l.Latitude) }},
	{ColLongitude, func(l model.Listing) (float64, bool) { return deref(l.Longitude) }},
}

// Summarize computes statistics for each numeric column, skipping missing cells.
func Summarize(listings []model.Listing) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(summaryColumns))
	for _, col := range summaryColumns {
		vals := make([]float64, 0, len(listings))
		for _, l := range listings {
			if v, ok := col.value(l); ok {
				vals = append(vals, v)
			}
		}
		out = append(out, summarizeValues(col.name, vals))
	}
	return out
}

func summarizeValues(name string, vals []float64) ColumnSummary {
	nan := math.NaN()
	if len(vals) == 0 {
		return ColumnSummary{Column: name, Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	}

	s := series.Floats(vals)
	std := nan
	if len(vals) > 1 {
		std = s.StdDev()
	}
	q25, median, q75 := Quartiles(s)
	return ColumnSummary{
		Column: name,
		Count:  len(vals),
		Mean:   s.Mean(),
		Std:    std,
		Min:    s.Min(),
		Q25:    q25,
		Median: median,
		Q75:    q75,
		Max:    s.Max(),
	}
}

// Quartiles returns the 25th, 50th and 75th percentiles of s, interpolating
// linearly between the closest ranks. NaN cells are ignored.
func Quartiles(s series.Series) (q25, median, q75 float64) {
	vals := make([]float64, 0, s.Len())
	for _, v := range s.Float() {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	return percentile(vals, 0.25), percentile(vals, 0.5), percentile(vals, 0.75)
}

// percentile reads q from sorted at position q*(n-1).
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefInt(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}
