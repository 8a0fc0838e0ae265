package chart

import (
	"image"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"airdash/internal/model"
)

// Point is one listing placed on the map.
type Point struct {
	Lat   float64
	Long  float64
	Price float64
	Group string
}

// MapPoints returns the listings that have coordinates and a price, cheapest
// first so expensive listings are drawn on top.
func MapPoints(listings []model.Listing) []Point {
	pts := make([]Point, 0, len(listings))
	for _, l := range listings {
		if l.Latitude == nil || l.Longitude == nil || l.Price == nil {
			continue
		}
		pts = append(pts, Point{Lat: *l.Latitude, Long: *l.Longitude, Price: *l.Price, Group: l.NeighbourhoodGroup})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Price < pts[j].Price })
	return pts
}

var (
	mapBackground = mustHex("#1D221E")
	priceLow      = mustHex("#8FA082")
	priceHigh     = mustHex("#f38ba8")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// PriceColor returns the gradient colour for price within [lo, hi].
func PriceColor(price, lo, hi float64) colorful.Color {
	t := 0.5
	if hi > lo {
		t = (price - lo) / (hi - lo)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return priceLow.BlendLab(priceHigh, t).Clamped()
}

// RenderMap projects points onto a w x h image. Dot colour follows the price
// gradient and dot radius grows with price.
func RenderMap(points []Point, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBAModel.Convert(mapBackground)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, bg)
		}
	}
	if len(points) == 0 {
		return img
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLong, maxLong := points[0].Long, points[0].Long
	minPrice, maxPrice := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		minLat, maxLat = minFloat(minLat, p.Lat), maxFloat(maxLat, p.Lat)
		minLong, maxLong = minFloat(minLong, p.Long), maxFloat(maxLong, p.Long)
		minPrice, maxPrice = minFloat(minPrice, p.Price), maxFloat(maxPrice, p.Price)
	}

	maxRadius := w
	if h < maxRadius {
		maxRadius = h
	}
	maxRadius /= 40
	if maxRadius < 1 {
		maxRadius = 1
	}

	for _, p := range points {
		x := scale(p.Long, minLong, maxLong, w)
		y := h - 1 - scale(p.Lat, minLat, maxLat, h)
		r := 0
		if maxPrice > minPrice {
			r = int((p.Price - minPrice) / (maxPrice - minPrice) * float64(maxRadius))
		}
		fillDisc(img, x, y, r, PriceColor(p.Price, minPrice, maxPrice))
	}
	return img
}

func fillDisc(img *image.RGBA, cx, cy, r int, c color.Color) {
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			pt := image.Pt(cx+dx, cy+dy)
			if pt.In(b) {
				img.Set(pt.X, pt.Y, c)
			}
		}
	}
}
