package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airdash/internal/model"
	"airdash/internal/util"
)

// ListingDetailModel represents the single listing screen opened from the table.
type ListingDetailModel struct {
	listing model.Listing
}

// NewListingDetailModel creates a new listing detail model.
func NewListingDetailModel(l model.Listing) *ListingDetailModel {
	return &ListingDetailModel{listing: l}
}

// View renders the listing detail.
func (m *ListingDetailModel) View(width, height int) string {
	l := m.listing

	shortcuts := HelpDescStyle.Render("h back")
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	var sections []string
	sections = append(sections, strings.Join(listingFields(l), "\n"))

	divider := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render(strings.Repeat("─", max(0, width-8)))
	sections = append(sections, divider)

	var extra []string
	if l.ID != "" {
		extra = append(extra, renderField("Listing ID", l.ID))
	}
	extra = append(extra, renderField("Row", fmt.Sprintf("%d", l.Row+1)))
	if l.Latitude != nil && l.Longitude != nil {
		extra = append(extra, renderField("Coordinates", fmt.Sprintf("%.5f, %.5f", *l.Latitude, *l.Longitude)))
	}
	sections = append(sections, strings.Join(extra, "\n"))

	sections = append(sections, LabelStyle.Render("House Rules:"))
	sections = append(sections, NormalRowStyle.Width(max(10, width-10)).Render(util.FormatHouseRules(l.HouseRules)))

	info := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, info)
}

// listingFields renders the labelled facts shared by the home card and the detail screen.
func listingFields(l model.Listing) []string {
	rate := util.FormatReviewRate(l.ReviewRate)
	if l.ReviewRate != nil {
		rate = HighlightStyle.Render(util.FormatRatingStars(l.ReviewRate)) + " " + rate
	}

	return []string{
		renderField("Host", l.HostName),
		renderField("Location", util.FormatCategory(l.Neighbourhood)+", "+util.FormatCategory(l.NeighbourhoodGroup)),
		renderField("Room Type", l.RoomType),
		renderField("Price", util.FormatPrice(l.Price)),
		LabelStyle.Render("Review Rate:") + " " + rate,
		renderField("Reviews", util.FormatCount(l.NumberOfReviews)),
		renderField("Availability", util.FormatAvailability(l.Availability365)),
		renderField("Cancellation", l.CancellationPolicy),
		LabelStyle.Render("Rules:") + " " + renderRuleFlags(l),
	}
}

// renderRuleFlags shows each house-rule flag as ✓ (rule applies), ✗ or –.
func renderRuleFlags(l model.Listing) string {
	flags := []struct {
		label string
		value *bool
	}{
		{"no smoking", l.NoSmoking},
		{"no parties", l.NoParty},
		{"no pets", l.NoPet},
	}
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		symbol := util.FormatFlagSymbol(f.value)
		if f.value != nil {
			color := ColorGreen
			if *f.value {
				color = ColorRed
			}
			symbol = lipgloss.NewStyle().Foreground(color).Render(symbol)
		}
		parts = append(parts, symbol+" "+HelpDescStyle.Render(f.label))
	}
	return strings.Join(parts, "  ")
}

func renderField(label, value string) string {
	if value == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}
