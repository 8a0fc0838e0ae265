package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airdash/internal/filter"
	"airdash/internal/model"
	"airdash/internal/util"
)

// renderHome renders the best listing card for the current filter result.
func renderHome(best model.Listing, ok bool, matched, total int, c model.FilterCriteria, width, height int) string {
	summary := HelpDescStyle.Render(fmt.Sprintf("%s of %s listings match  ·  %s",
		util.FormatInt(matched), util.FormatInt(total), filter.Describe(c)))

	if !ok {
		empty := EmptyStateStyle.
			Width(width).
			Render("No listings match your filter criteria.\nPress  f  to adjust filters or  r  to reset them.")
		return lipgloss.JoinVertical(lipgloss.Left, summary, empty)
	}

	title := CardTitleStyle.Render(util.TruncateString(best.Name, max(10, width-12)))
	if strings.TrimSpace(best.Name) == "" {
		title = CardTitleStyle.Render("(unnamed listing)")
	}

	sections := []string{
		LabelStyle.Render("BEST LISTING") + "\n" + title,
		strings.Join(listingFields(best), "\n"),
		LabelStyle.Render("House Rules:") + "\n" + NormalRowStyle.Width(max(10, width-10)).Render(util.FormatHouseRules(best.HouseRules)),
		HelpDescStyle.Render("Ranked by review rate, then number of reviews, then lowest price."),
	}

	card := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, summary, card)
}
