// Package chart turns a filtered set of listings into the data behind the
// dashboard's visualisations. Nothing here draws to the terminal.
package chart

import (
	"github.com/go-gota/gota/series"

	"airdash/internal/dataset"
	"airdash/internal/model"
)

// BoxSummary is the five-number summary of prices for one category.
type BoxSummary struct {
	Label  string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
}

// BoxByRoomType summarises prices per room type.
func BoxByRoomType(listings []model.Listing) []BoxSummary {
	return boxBy(listings, func(l model.Listing) string { return l.RoomType })
}

// BoxByGroup summarises prices per neighbourhood group.
func BoxByGroup(listings []model.Listing) []BoxSummary {
	return boxBy(listings, func(l model.Listing) string { return l.NeighbourhoodGroup })
}

// boxBy groups priced listings by key, keeping first-appearance order.
func boxBy(listings []model.Listing, key func(model.Listing) string) []BoxSummary {
	var labels []string
	prices := make(map[string][]float64)
	for _, l := range listings {
		if l.Price == nil {
			continue
		}
		k := key(l)
		if _, ok := prices[k]; !ok {
			labels = append(labels, k)
		}
		prices[k] = append(prices[k], *l.Price)
	}

	out := make([]BoxSummary, 0, len(labels))
	for _, label := range labels {
		s := series.Floats(prices[label])
		q1, median, q3 := dataset.Quartiles(s)
		out = append(out, BoxSummary{
			Label:  label,
			Count:  s.Len(),
			Min:    s.Min(),
			Q1:     q1,
			Median: median,
			Q3:     q3,
			Max:    s.Max(),
			Mean:   s.Mean(),
		})
	}
	return out
}

// Histogram counts listings per availability bin, split by neighbourhood group.
// Counts[i][j] is the number of listings of Groups[j] in Bins[i].
type Histogram struct {
	Bins   []Bin
	Groups []string
	Counts [][]int
}

// Bin is a half-open availability interval; the last bin also holds its upper edge.
type Bin struct {
	Lo float64
	Hi float64
}

// Total returns the number of listings in bin i across all groups.
func (h Histogram) Total(i int) int {
	n := 0
	for _, c := range h.Counts[i] {
		n += c
	}
	return n
}

// MaxTotal returns the largest bin total.
func (h Histogram) MaxTotal() int {
	max := 0
	for i := range h.Bins {
		if t := h.Total(i); t > max {
			max = t
		}
	}
	return max
}

const maxAvailability = 365

// AvailabilityHistogram buckets availability over the whole 0-365 day range.
func AvailabilityHistogram(listings []model.Listing, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	h := Histogram{
		Bins:   make([]Bin, bins),
		Counts: make([][]int, bins),
	}
	width := float64(maxAvailability) / float64(bins)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lo: float64(i) * width, Hi: float64(i+1) * width}
	}

	index := make(map[string]int)
	for _, l := range listings {
		if l.Availability365 == nil {
			continue
		}
		g, ok := index[l.NeighbourhoodGroup]
		if !ok {
			g = len(h.Groups)
			index[l.NeighbourhoodGroup] = g
			h.Groups = append(h.Groups, l.NeighbourhoodGroup)
		}

		b := int(float64(*l.Availability365) / width)
		if b >= bins {
			b = bins - 1
		}
		for len(h.Counts[b]) <= g {
			h.Counts[b] = append(h.Counts[b], 0)
		}
		h.Counts[b][g]++
	}

	// pad rows so every bin has one count per group
	for i := range h.Counts {
		for len(h.Counts[i]) < len(h.Groups) {
			h.Counts[i] = append(h.Counts[i], 0)
		}
	}
	return h
}

// Scatter is number of reviews (x) against price (y) rasterised to a grid.
// Cells[row][col] holds the index into Groups of the most common group in that
// cell, or -1 when empty. Row 0 is the highest price.
type Scatter struct {
	Width      int
	Height     int
	Cells      [][]int
	Groups     []string
	Points     int
	MaxReviews int
	MinPrice   float64
	MaxPrice   float64
}

// ScatterGrid places every listing that has both a review count and a price.
func ScatterGrid(listings []model.Listing, w, h int) Scatter {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s := Scatter{Width: w, Height: h, Cells: make([][]int, h)}
	for r := range s.Cells {
		s.Cells[r] = make([]int, w)
		for c := range s.Cells[r] {
			s.Cells[r][c] = -1
		}
	}

	var pts []model.Listing
	for _, l := range listings {
		if l.NumberOfReviews == nil || l.Price == nil {
			continue
		}
		if len(pts) == 0 {
			s.MinPrice, s.MaxPrice = *l.Price, *l.Price
		}
		pts = append(pts, l)
		s.MaxReviews = maxInt(s.MaxReviews, *l.NumberOfReviews)
		s.MinPrice = minFloat(s.MinPrice, *l.Price)
		s.MaxPrice = maxFloat(s.MaxPrice, *l.Price)
	}
	s.Points = len(pts)
	if s.Points == 0 {
		return s
	}

	index := make(map[string]int)
	counts := make(map[[2]int][]int)
	for _, l := range pts {
		g, ok := index[l.NeighbourhoodGroup]
		if !ok {
			g = len(s.Groups)
			index[l.NeighbourhoodGroup] = g
			s.Groups = append(s.Groups, l.NeighbourhoodGroup)
		}
		col := scale(float64(*l.NumberOfReviews), 0, float64(s.MaxReviews), w)
		row := h - 1 - scale(*l.Price, s.MinPrice, s.MaxPrice, h)
		cell := [2]int{row, col}
		for len(counts[cell]) <= g {
			counts[cell] = append(counts[cell], 0)
		}
		counts[cell][g]++
	}

	for cell, byGroup := range counts {
		best := 0
		for g, n := range byGroup {
			if n > byGroup[best] {
				best = g
			}
		}
		s.Cells[cell[0]][cell[1]] = best
	}
	return s
}

// scale maps v in [lo, hi] onto 0..n-1. A zero span maps to the middle.
func scale(v, lo, hi float64, n int) int {
	if hi <= lo {
		return n / 2
	}
	i := int((v - lo) / (hi - lo) * float64(n-1))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
