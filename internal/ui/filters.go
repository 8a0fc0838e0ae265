package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airdash/internal/dataset"
	"airdash/internal/model"
	"airdash/internal/util"
)

type filterSection int

const (
	sectionGroups filterSection = iota
	sectionRoomTypes
	sectionPolicies
	sectionPrice
	sectionHouseRules
	sectionNeighbourhoods
)

var sectionTitles = map[filterSection]string{
	sectionGroups:         "neighbourhood group",
	sectionRoomTypes:      "room type",
	sectionPolicies:       "cancellation policy",
	sectionPrice:          "price",
	sectionHouseRules:     "house rules",
	sectionNeighbourhoods: "neighbourhood",
}

const (
	boundMin = "min"
	boundMax = "max"

	ruleSmoking = "smoking"
	ruleParty   = "parties"
	rulePets    = "pets"
)

// panelItem is one selectable row of the filter panel.
type panelItem struct {
	section filterSection
	value   string
	toggle  bool // expands or collapses the neighbourhood list
}

// FilterPanel holds cursor and scroll state for the filter side panel.
// The criteria themselves live on the root model.
type FilterPanel struct {
	cursor       int
	offset       int
	advancedOpen bool
}

// NewFilterPanel creates a panel with the advanced section collapsed.
func NewFilterPanel() *FilterPanel {
	return &FilterPanel{}
}

func (p *FilterPanel) items(ds *dataset.Dataset) []panelItem {
	var items []panelItem
	for _, g := range ds.Groups() {
		items = append(items, panelItem{section: sectionGroups, value: g})
	}
	for _, r := range ds.RoomTypes() {
		items = append(items, panelItem{section: sectionRoomTypes, value: r})
	}
	for _, c := range ds.CancellationPolicies() {
		items = append(items, panelItem{section: sectionPolicies, value: c})
	}
	items = append(items,
		panelItem{section: sectionPrice, value: boundMin},
		panelItem{section: sectionPrice, value: boundMax},
		panelItem{section: sectionHouseRules, value: ruleSmoking},
		panelItem{section: sectionHouseRules, value: ruleParty},
		panelItem{section: sectionHouseRules, value: rulePets},
		panelItem{section: sectionNeighbourhoods, toggle: true},
	)
	if p.advancedOpen {
		for _, n := range ds.Neighbourhoods() {
			items = append(items, panelItem{section: sectionNeighbourhoods, value: n})
		}
	}
	return items
}

// Selected returns the item under the cursor.
func (p *FilterPanel) Selected(ds *dataset.Dataset) (panelItem, bool) {
	items := p.items(ds)
	if len(items) == 0 {
		return panelItem{}, false
	}
	if p.cursor >= len(items) {
		p.cursor = len(items) - 1
	}
	return items[p.cursor], true
}

// MoveDown moves the cursor down.
func (p *FilterPanel) MoveDown(ds *dataset.Dataset) {
	if p.cursor < len(p.items(ds))-1 {
		p.cursor++
	}
}

// MoveUp moves the cursor up.
func (p *FilterPanel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// JumpToTop jumps to the first item.
func (p *FilterPanel) JumpToTop() {
	p.cursor = 0
	p.offset = 0
}

// JumpToBottom jumps to the last item.
func (p *FilterPanel) JumpToBottom(ds *dataset.Dataset) {
	p.cursor = max(0, len(p.items(ds))-1)
}

// ToggleAdvanced expands or collapses the neighbourhood list.
func (p *FilterPanel) ToggleAdvanced() {
	p.advancedOpen = !p.advancedOpen
}

// toggleValue flips v in selected and returns the result in options order.
// An empty result is nil.
func toggleValue(selected, options []string, v string) []string {
	set := make(map[string]bool, len(selected)+1)
	for _, s := range selected {
		set[s] = true
	}
	set[v] = !set[v]

	var out []string
	for _, o := range options {
		if set[o] {
			out = append(out, o)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// toggleItem applies space on item. ok is false when the item has nothing to toggle.
func toggleItem(c model.FilterCriteria, item panelItem, ds *dataset.Dataset) (model.FilterCriteria, string, bool) {
	c = c.Clone()
	switch item.section {
	case sectionGroups:
		c.Groups = toggleValue(c.Groups, ds.Groups(), item.value)
	case sectionRoomTypes:
		c.RoomTypes = toggleValue(c.RoomTypes, ds.RoomTypes(), item.value)
	case sectionPolicies:
		c.CancellationPolicies = toggleValue(c.CancellationPolicies, ds.CancellationPolicies(), item.value)
	case sectionNeighbourhoods:
		if item.toggle {
			return c, "", false
		}
		c.Neighbourhoods = toggleValue(c.Neighbourhoods, ds.Neighbourhoods(), item.value)
	case sectionHouseRules:
		ptr := rulePointer(&c, item.value)
		*ptr = cycleRequirement(*ptr)
		return c, fmt.Sprintf("%s: %s", item.value, ruleLabel(*ptr)), true
	default:
		return c, "", false
	}
	return c, "toggled " + util.FormatCategory(item.value), true
}

func rulePointer(c *model.FilterCriteria, rule string) **bool {
	switch rule {
	case ruleSmoking:
		return &c.NoSmoking
	case ruleParty:
		return &c.NoParty
	default:
		return &c.NoPet
	}
}

// cycleRequirement steps any -> not allowed -> allowed -> any.
func cycleRequirement(b *bool) *bool {
	switch {
	case b == nil:
		return model.Bool(true)
	case *b:
		return model.Bool(false)
	default:
		return nil
	}
}

func ruleLabel(want *bool) string {
	switch {
	case want == nil:
		return "any"
	case *want:
		return "not allowed"
	default:
		return "allowed"
	}
}

// selectAll selects every option of item's section.
func selectAll(c model.FilterCriteria, item panelItem, ds *dataset.Dataset) (model.FilterCriteria, bool) {
	c = c.Clone()
	switch item.section {
	case sectionGroups:
		c.Groups = append([]string(nil), ds.Groups()...)
	case sectionRoomTypes:
		c.RoomTypes = append([]string(nil), ds.RoomTypes()...)
	case sectionPolicies:
		c.CancellationPolicies = append([]string(nil), ds.CancellationPolicies()...)
	case sectionNeighbourhoods:
		c.Neighbourhoods = append([]string(nil), ds.Neighbourhoods()...)
	case sectionPrice:
		if bounds, ok := ds.PriceBounds(); ok {
			c.Price = bounds
		}
	case sectionHouseRules:
		c.NoSmoking, c.NoParty, c.NoPet = nil, nil, nil
	default:
		return c, false
	}
	return c, true
}

// selectNone clears item's section. Cleared groups or room types match no
// listing; cleared policies and neighbourhoods lift their restriction.
func selectNone(c model.FilterCriteria, item panelItem) (model.FilterCriteria, bool) {
	c = c.Clone()
	switch item.section {
	case sectionGroups:
		c.Groups = nil
	case sectionRoomTypes:
		c.RoomTypes = nil
	case sectionPolicies:
		c.CancellationPolicies = nil
	case sectionNeighbourhoods:
		c.Neighbourhoods = nil
	case sectionHouseRules:
		c.NoSmoking, c.NoParty, c.NoPet = nil, nil, nil
	default:
		return c, false
	}
	return c, true
}

// priceStep is about a fiftieth of the observed price span, at least 1.
func priceStep(bounds model.PriceRange) float64 {
	return math.Max(1, math.Round((bounds.Max-bounds.Min)/50))
}

// nudgePrice moves one bound by dir steps, staying inside the dataset bounds
// and never crossing the other bound.
func nudgePrice(c model.FilterCriteria, bound string, dir int, bounds model.PriceRange) model.FilterCriteria {
	c = c.Clone()
	delta := float64(dir) * priceStep(bounds)
	switch bound {
	case boundMin:
		c.Price.Min = math.Max(bounds.Min, math.Min(c.Price.Min+delta, c.Price.Max))
	case boundMax:
		c.Price.Max = math.Min(bounds.Max, math.Max(c.Price.Max+delta, c.Price.Min))
	}
	return c
}

type panelLine struct {
	text string
	item int // index into items, -1 for headings
}

// View renders the panel. Only focused panels highlight the cursor row.
func (p *FilterPanel) View(width, height int, c model.FilterCriteria, ds *dataset.Dataset, focused bool) string {
	style := FilterPanelStyle
	if focused {
		style = ActiveFilterPanelStyle
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 || height < 3 {
		return ""
	}
	if ds == nil {
		return style.Width(width - style.GetHorizontalBorderSize()).Height(height).Render(HelpDescStyle.Render("loading..."))
	}

	items := p.items(ds)
	if p.cursor >= len(items) {
		p.cursor = len(items) - 1
	}

	var lines []panelLine
	section := filterSection(-1)
	for i, it := range items {
		if it.section != section {
			section = it.section
			if len(lines) > 0 {
				lines = append(lines, panelLine{item: -1})
			}
			if !it.toggle {
				lines = append(lines, panelLine{text: sectionHeading(section, c), item: -1})
			}
		}
		lines = append(lines, panelLine{text: p.itemLabel(it, c, inner-2), item: i})
	}

	title := LabelStyle.Render("FILTERS")
	bodyHeight := height - 2

	cursorLine := 0
	for i, l := range lines {
		if l.item == p.cursor {
			cursorLine = i
			break
		}
	}
	if cursorLine < p.offset {
		p.offset = cursorLine
	}
	if cursorLine >= p.offset+bodyHeight {
		p.offset = cursorLine - bodyHeight + 1
	}
	if p.offset > max(0, len(lines)-bodyHeight) {
		p.offset = max(0, len(lines)-bodyHeight)
	}

	var rendered []string
	for i := p.offset; i < len(lines) && i < p.offset+bodyHeight; i++ {
		l := lines[i]
		rowStyle := NormalRowStyle
		if focused && l.item == p.cursor && l.item >= 0 {
			rowStyle = SelectedRowStyle
		}
		rendered = append(rendered, rowStyle.Width(inner).MaxWidth(inner).Render(l.text))
	}

	more := ""
	if len(lines) > bodyHeight {
		more = HelpDescStyle.Render(fmt.Sprintf(" %d/%d", p.cursor+1, len(items)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, title+more, "", strings.Join(rendered, "\n"))
	return style.Width(width - style.GetHorizontalBorderSize()).Height(height).Render(body)
}

func sectionHeading(s filterSection, c model.FilterCriteria) string {
	heading := formatHeaderLabel(sectionTitles[s])
	var empty string
	switch {
	case s == sectionGroups && len(c.Groups) == 0,
		s == sectionRoomTypes && len(c.RoomTypes) == 0:
		empty = " (none)"
	case s == sectionPolicies && len(c.CancellationPolicies) == 0:
		empty = " (any)"
	default:
		return LabelStyle.Render(heading)
	}
	return LabelStyle.Render(heading) + HelpDescStyle.Render(empty)
}

func (p *FilterPanel) itemLabel(it panelItem, c model.FilterCriteria, width int) string {
	switch it.section {
	case sectionGroups:
		return checkbox(contains(c.Groups, it.value), it.value, width)
	case sectionRoomTypes:
		return checkbox(contains(c.RoomTypes, it.value), it.value, width)
	case sectionPolicies:
		return checkbox(contains(c.CancellationPolicies, it.value), it.value, width)
	case sectionPrice:
		v := c.Price.Min
		if it.value == boundMax {
			v = c.Price.Max
		}
		return fmt.Sprintf(" %-4s %s", it.value, util.FormatPriceValue(v))
	case sectionHouseRules:
		return fmt.Sprintf(" %-8s %s", it.value, ruleLabel(*rulePointer(&c, it.value)))
	case sectionNeighbourhoods:
		if it.toggle {
			arrow := "▸"
			if p.advancedOpen {
				arrow = "▾"
			}
			label := formatHeaderLabel(sectionTitles[sectionNeighbourhoods])
			if len(c.Neighbourhoods) == 0 {
				return fmt.Sprintf("%s %s (any)", arrow, label)
			}
			return fmt.Sprintf("%s %s (%d)", arrow, label, len(c.Neighbourhoods))
		}
		return checkbox(contains(c.Neighbourhoods, it.value), it.value, width)
	}
	return ""
}

func checkbox(checked bool, label string, width int) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	return " " + box + " " + util.TruncateString(util.FormatCategory(label), max(1, width-5))
}
