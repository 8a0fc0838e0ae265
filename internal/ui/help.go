package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airdash/internal/model"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, focus model.Focus, width int) string {
	if mode == model.ModeInsert {
		return renderFormHelp(width)
	}
	if focus == model.FocusFilters {
		return renderFiltersHelp(width)
	}

	switch screen {
	case model.ScreenHome:
		return renderHomeHelp(width)
	case model.ScreenVisualization:
		return renderChartsHelp(width)
	case model.ScreenDetail:
		return renderDetailHelp(width)
	case model.ScreenListingDetail:
		return renderListingDetailHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderHomeHelp(width int) string {
	keys := []string{
		helpKey("←/→", "tabs"),
		helpKey("f", "filters"),
		helpKey("p", "price range"),
		helpKey("r", "reset"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderChartsHelp(width int) string {
	keys := []string{
		helpKey("tab/l", "next chart"),
		helpKey("shift+tab/h", "prev chart"),
		helpKey("←/→", "tabs"),
		helpKey("f", "filters"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderDetailHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("tab", "next col"),
		helpKey("s/S", "sort"),
		helpKey("c/C", "hide/show col"),
		helpKey("n/N", "filter"),
		helpKey("enter", "details"),
		helpKey("/", "jump col"),
		helpKey("f", "filters"),
	}
	return renderHelpLine(keys, width)
}

func renderListingDetailHelp(width int) string {
	keys := []string{
		helpKey("h/esc", "back"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderFiltersHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("space", "toggle"),
		helpKey("a/A", "all/none"),
		helpKey("+/-", "price bound"),
		helpKey("p", "price range"),
		helpKey("r", "reset"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("f/esc", "close"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("enter", "apply"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "back/select"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"← / →", "Previous / next tab"},
			{"1 / 2 / 3", "Home / Visualization / Detail"},
			{"f", "Focus the filter panel"},
			{"u / ctrl+r", "Undo / redo a filter change"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}),
		titleSection("Filter Panel"),
		helpSection([]helpItem{
			{"j / k", "Move between options"},
			{"space / enter", "Toggle option, cycle house rule"},
			{"a / A", "Select every option / clear the section"},
			{"+ / -", "Raise / lower the price bound under the cursor"},
			{"p", "Type an exact price range"},
			{"r", "Reset every filter"},
			{"f / esc", "Return to the content"},
		}),
		titleSection("Visualization"),
		helpSection([]helpItem{
			{"tab / l", "Next chart"},
			{"shift+tab / h", "Previous chart"},
		}),
		titleSection("Detail Table"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"tab / shift+tab", "Cycle active column"},
			{"/ then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
			{"gg / G", "Jump to top / bottom"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"enter / l", "Open listing detail"},
			{"h / esc", "Back"},
		}),
		titleSection("Price Form"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"enter", "Apply"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
