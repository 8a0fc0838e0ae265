package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airdash/internal/chart"
	"airdash/internal/model"
	"airdash/internal/util"
)

type chartKind int

const (
	chartMap chartKind = iota
	chartRoomPrice
	chartGroupPrice
	chartAvailability
	chartScatter
	chartCount
)

var chartTitles = [chartCount]string{
	"Map",
	"Price by Room Type",
	"Price by Group",
	"Availability",
	"Price vs Reviews",
}

// ChartsModel is the Visualization tab. Chart data is derived lazily from the
// current filter result and cached until the result or the size changes.
type ChartsModel struct {
	listings []model.Listing
	caps     TerminalCapabilities
	active   chartKind

	dirty      bool
	roomBoxes  []chart.BoxSummary
	groupBoxes []chart.BoxSummary
	points     []chart.Point

	mapCache string
	mapW     int
	mapH     int
}

// NewChartsModel creates an empty charts model.
func NewChartsModel(caps TerminalCapabilities) *ChartsModel {
	return &ChartsModel{caps: caps, dirty: true}
}

// SetListings replaces the data behind every chart.
func (m *ChartsModel) SetListings(listings []model.Listing) {
	m.listings = listings
	m.dirty = true
	m.mapCache = ""
}

// NextChart cycles forward through the charts.
func (m *ChartsModel) NextChart() {
	m.active = (m.active + 1) % chartCount
}

// PrevChart cycles backward through the charts.
func (m *ChartsModel) PrevChart() {
	m.active = (m.active + chartCount - 1) % chartCount
}

func (m *ChartsModel) refresh() {
	if !m.dirty {
		return
	}
	m.roomBoxes = chart.BoxByRoomType(m.listings)
	m.groupBoxes = chart.BoxByGroup(m.listings)
	m.points = chart.MapPoints(m.listings)
	m.dirty = false
}

// View renders the chart selector, the active chart and its caption.
func (m *ChartsModel) View(width, height int) string {
	if len(m.listings) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render("No listings match your filter criteria.")
	}
	m.refresh()

	var tabs []string
	for i, title := range chartTitles {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
		if chartKind(i) == m.active {
			style = style.Foreground(ColorText).Bold(true).Underline(true)
		}
		tabs = append(tabs, style.Render(title))
	}
	selector := lipgloss.JoinHorizontal(lipgloss.Left, tabs...)

	bodyHeight := max(3, height-3)
	bodyWidth := max(20, width-2)

	var body, caption string
	switch m.active {
	case chartMap:
		body, caption = m.viewMap(bodyWidth, bodyHeight)
	case chartRoomPrice:
		body = renderBoxes(m.roomBoxes, bodyWidth)
		caption = boxCaption("room types", m.roomBoxes)
	case chartGroupPrice:
		body = renderBoxes(m.groupBoxes, bodyWidth)
		caption = boxCaption("neighbourhood groups", m.groupBoxes)
	case chartAvailability:
		bins := min(24, max(4, bodyHeight-2))
		h := chart.AvailabilityHistogram(m.listings, bins)
		body = renderHistogram(h, bodyWidth)
		caption = histogramCaption(h)
	case chartScatter:
		s := chart.ScatterGrid(m.listings, max(4, bodyWidth-12), max(2, bodyHeight-3))
		body = renderScatter(s)
		caption = fmt.Sprintf("%s listings with reviews and price  ·  reviews 0-%s  ·  price %s-%s",
			util.FormatInt(s.Points), util.FormatInt(s.MaxReviews),
			util.FormatPriceValue(s.MinPrice), util.FormatPriceValue(s.MaxPrice))
	}

	body = lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left,
		selector,
		"",
		body,
		StatusBarStyle.Render(caption),
	)
}

func (m *ChartsModel) viewMap(width, height int) (string, string) {
	if len(m.points) == 0 {
		return HelpDescStyle.Render("No listings with coordinates and price."), ""
	}
	if m.mapCache == "" || m.mapW != width || m.mapH != height {
		img := chart.RenderMap(m.points, width*4, height*8)
		m.mapCache = RenderMapImage(img, m.caps, width, height)
		m.mapW, m.mapH = width, height
	}

	lo, hi := m.points[0].Price, m.points[len(m.points)-1].Price
	caption := fmt.Sprintf("%s listings mapped  ·  price %s-%s  ·  larger, redder dots cost more",
		util.FormatInt(len(m.points)), util.FormatPriceValue(lo), util.FormatPriceValue(hi))
	return m.mapCache, caption
}

func boxCaption(what string, boxes []chart.BoxSummary) string {
	if len(boxes) == 0 {
		return "no priced listings"
	}
	n := 0
	for _, b := range boxes {
		n += b.Count
	}
	return fmt.Sprintf("%s priced listings across %d %s  ·  ─ range  █ middle half  ┃ median",
		util.FormatInt(n), len(boxes), what)
}

const boxLabelWidth = 20

// renderBoxes draws one horizontal box plot per category on a shared price axis.
func renderBoxes(boxes []chart.BoxSummary, width int) string {
	if len(boxes) == 0 {
		return HelpDescStyle.Render("No priced listings.")
	}
	lo, hi := boxes[0].Min, boxes[0].Max
	for _, b := range boxes[1:] {
		lo = min(lo, b.Min)
		hi = max(hi, b.Max)
	}

	statsWidth := 26
	barWidth := max(10, width-boxLabelWidth-statsWidth-2)

	var lines []string
	for i, b := range boxes {
		label := lipgloss.NewStyle().Width(boxLabelWidth).Render(util.TruncateString(util.FormatCategory(b.Label), boxLabelWidth-1))
		bar := lipgloss.NewStyle().Foreground(seriesColor(i)).Render(boxBar(b, lo, hi, barWidth))
		stats := HelpDescStyle.Render(fmt.Sprintf(" med %s  n=%s", util.FormatPriceValue(b.Median), util.FormatInt(b.Count)))
		lines = append(lines, label+bar+stats, "")
	}

	axis := strings.Repeat(" ", boxLabelWidth) +
		HelpDescStyle.Render(padBetween(util.FormatPriceValue(lo), util.FormatPriceValue(hi), barWidth))
	lines = append(lines, axis)
	return strings.Join(lines, "\n")
}

func boxBar(b chart.BoxSummary, lo, hi float64, width int) string {
	pos := func(v float64) int {
		if hi <= lo {
			return width / 2
		}
		return min(width-1, max(0, int((v-lo)/(hi-lo)*float64(width-1))))
	}
	cells := []rune(strings.Repeat(" ", width))
	for i := pos(b.Min); i <= pos(b.Max); i++ {
		cells[i] = '─'
	}
	for i := pos(b.Q1); i <= pos(b.Q3); i++ {
		cells[i] = '█'
	}
	cells[pos(b.Median)] = '┃'
	return string(cells)
}

func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func histogramCaption(h chart.Histogram) string {
	n := 0
	for i := range h.Bins {
		n += h.Total(i)
	}
	width := 0.0
	if len(h.Bins) > 0 {
		width = h.Bins[0].Hi - h.Bins[0].Lo
	}
	return fmt.Sprintf("%s listings with availability  ·  %d bins of %.0f days  ·  stacked by neighbourhood group",
		util.FormatInt(n), len(h.Bins), width)
}

// renderHistogram draws one stacked horizontal bar per bin.
func renderHistogram(h chart.Histogram, width int) string {
	labelWidth := 10
	countWidth := 8
	barWidth := max(10, width-labelWidth-countWidth)
	peak := h.MaxTotal()

	var lines []string
	for i, bin := range h.Bins {
		label := lipgloss.NewStyle().Width(labelWidth).Render(fmt.Sprintf("%3.0f-%3.0f", bin.Lo, bin.Hi))
		var bar strings.Builder
		used := 0
		for g, n := range h.Counts[i] {
			if n == 0 || peak == 0 {
				continue
			}
			seg := n * barWidth / peak
			if seg == 0 {
				seg = 1
			}
			seg = min(seg, barWidth-used)
			used += seg
			bar.WriteString(lipgloss.NewStyle().Foreground(seriesColor(g)).Render(strings.Repeat("█", seg)))
		}
		bar.WriteString(strings.Repeat(" ", max(0, barWidth-used)))
		lines = append(lines, label+bar.String()+HelpDescStyle.Render(fmt.Sprintf(" %s", util.FormatInt(h.Total(i)))))
	}
	lines = append(lines, renderLegend(h.Groups))
	return strings.Join(lines, "\n")
}

// renderScatter draws the reviews/price grid with a price axis on the left.
func renderScatter(s chart.Scatter) string {
	axisWidth := 10
	var lines []string
	for r, row := range s.Cells {
		axis := ""
		switch r {
		case 0:
			axis = util.FormatPriceValue(s.MaxPrice)
		case len(s.Cells) - 1:
			axis = util.FormatPriceValue(s.MinPrice)
		}
		var b strings.Builder
		for _, g := range row {
			if g < 0 {
				b.WriteString(" ")
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(seriesColor(g)).Render("●"))
		}
		lines = append(lines, HelpDescStyle.Width(axisWidth).Render(axis)+"│"+b.String())
	}
	lines = append(lines, strings.Repeat(" ", axisWidth)+"└"+strings.Repeat("─", s.Width))
	lines = append(lines, strings.Repeat(" ", axisWidth+1)+
		HelpDescStyle.Render(padBetween("0 reviews", util.FormatInt(s.MaxReviews), s.Width)))
	lines = append(lines, renderLegend(s.Groups))
	return strings.Join(lines, "\n")
}

func renderLegend(groups []string) string {
	parts := make([]string, 0, len(groups))
	for i, g := range groups {
		parts = append(parts, lipgloss.NewStyle().Foreground(seriesColor(i)).Render("■")+" "+util.FormatCategory(g))
	}
	return strings.Join(parts, "   ")
}
