package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airdash/internal/dataset"
	"airdash/internal/model"
	"airdash/internal/util"
)

type listingColumn struct {
	key    string
	label  string
	width  int
	hidden bool
}

// summaryHeight is the number of lines taken by the statistics block.
const summaryHeight = 9

// ListingsModel is the Detail tab: the filtered listings as a table plus
// summary statistics of what is shown.
type ListingsModel struct {
	allRows []model.Listing
	rows    []model.Listing
	summary []dataset.ColumnSummary
	stale   bool
	cursor  int
	offset  int

	viewportHeight int

	columns      []listingColumn
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string
}

// NewListingsModel creates a new listings table.
func NewListingsModel(rows []model.Listing) *ListingsModel {
	m := &ListingsModel{
		columns: []listingColumn{
			{key: "name", label: "name", width: 28},
			{key: "host", label: "host", width: 12},
			{key: "group", label: "group", width: 13},
			{key: "area", label: "area", width: 16},
			{key: "room", label: "room", width: 15},
			{key: "price", label: "price", width: 8},
			{key: "rate", label: "rate", width: 6},
			{key: "reviews", label: "reviews", width: 7},
			{key: "avail", label: "avail", width: 5},
			{key: "policy", label: "policy", width: 10},
		},
	}
	m.SetRows(rows)
	return m
}

// SetRows replaces the underlying listings, keeping sort, filter and column state.
func (m *ListingsModel) SetRows(rows []model.Listing) {
	m.allRows = append([]model.Listing(nil), rows...)
	m.rebuild()
}

// Selected returns the listing under the cursor.
func (m *ListingsModel) Selected() (model.Listing, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return model.Listing{}, false
	}
	return m.rows[m.cursor], true
}

func (m *ListingsModel) rebuild() {
	rows := append([]model.Listing(nil), m.allRows...)

	if m.filterKey != "" && m.filterValue != "" {
		filtered := make([]model.Listing, 0, len(rows))
		target := strings.ToLower(strings.TrimSpace(m.filterValue))
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(m.getValue(r, m.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if m.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			left := strings.ToLower(m.getValue(rows[i], m.sortKey))
			right := strings.ToLower(m.getValue(rows[j], m.sortKey))
			if left == right {
				return rows[i].Row < rows[j].Row
			}
			if m.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	m.rows = rows
	m.stale = true
	m.clampCursor()
}

func (m *ListingsModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// getValue returns a sortable string for key; numbers are zero padded.
func (m *ListingsModel) getValue(row model.Listing, key string) string {
	switch key {
	case "name":
		return row.Name
	case "host":
		return row.HostName
	case "group":
		return row.NeighbourhoodGroup
	case "area":
		return row.Neighbourhood
	case "room":
		return row.RoomType
	case "price":
		if row.Price == nil {
			return ""
		}
		return fmt.Sprintf("%012.2f", *row.Price)
	case "rate":
		if row.ReviewRate == nil {
			return ""
		}
		return fmt.Sprintf("%05.2f", *row.ReviewRate)
	case "reviews":
		if row.NumberOfReviews == nil {
			return ""
		}
		return fmt.Sprintf("%09d", *row.NumberOfReviews)
	case "avail":
		if row.Availability365 == nil {
			return ""
		}
		return fmt.Sprintf("%03d", *row.Availability365)
	case "policy":
		return row.CancellationPolicy
	default:
		return ""
	}
}

func (m *ListingsModel) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range m.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (m *ListingsModel) ensureVisibleActiveColumn() {
	if !m.columns[m.activeColumn].hidden {
		return
	}
	for i := range m.columns {
		if !m.columns[i].hidden {
			m.activeColumn = i
			return
		}
	}
	m.columns[0].hidden = false
	m.activeColumn = 0
}

func (m *ListingsModel) NextColumn() {
	start := m.activeColumn
	for {
		m.activeColumn = (m.activeColumn + 1) % len(m.columns)
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *ListingsModel) PrevColumn() {
	start := m.activeColumn
	for {
		m.activeColumn--
		if m.activeColumn < 0 {
			m.activeColumn = len(m.columns) - 1
		}
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *ListingsModel) JumpToColumn(number int) bool {
	if number < 1 || number > len(m.columns) {
		return false
	}
	idx := number - 1
	if m.columns[idx].hidden {
		return false
	}
	m.activeColumn = idx
	return true
}

func (m *ListingsModel) SortActiveColumn(desc bool) {
	m.sortKey = m.columns[m.activeColumn].key
	m.sortDesc = desc
	m.rebuild()
}

func (m *ListingsModel) HideActiveColumn() bool {
	if len(m.visibleColumnIndexes()) <= 1 {
		return false
	}
	m.columns[m.activeColumn].hidden = true
	m.ensureVisibleActiveColumn()
	return true
}

func (m *ListingsModel) ShowAllColumns() {
	for i := range m.columns {
		m.columns[i].hidden = false
	}
}

func (m *ListingsModel) FilterBySelectedValue() bool {
	if len(m.rows) == 0 {
		return false
	}
	key := m.columns[m.activeColumn].key
	value := strings.TrimSpace(m.getValue(m.rows[m.cursor], key))
	if value == "" {
		return false
	}
	m.filterKey = key
	m.filterValue = value
	m.rebuild()
	return true
}

func (m *ListingsModel) ClearFilter() bool {
	if m.filterKey == "" {
		return false
	}
	m.filterKey = ""
	m.filterValue = ""
	m.rebuild()
	return true
}

func (m *ListingsModel) TableMeta() string {
	col := strings.ToUpper(m.columns[m.activeColumn].label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if m.sortKey != "" {
		order := "asc"
		if m.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(m.sortKey), order))
	}
	if m.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(m.filterKey), m.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the listings table and the statistics block.
func (m *ListingsModel) View(width, height int) string {
	if len(m.allRows) == 0 {
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render("No listings match your filter criteria.")
	}

	visible := m.visibleColumnIndexes()
	if len(visible) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render("No visible columns. Press C to show all columns.")
	}

	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	totalFixed := 0
	for _, idx := range visible {
		col := m.columns[idx]
		label := formatHeaderLabel(col.label)
		if idx == m.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if m.sortKey == col.key {
			if m.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+4)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	if len(widths) > 0 {
		sepTotal := (len(widths) - 1) * tableSeparatorWidth()
		extra := width - totalFixed - sepTotal - 2
		if extra > 0 {
			widths[len(widths)-1] += extra
		}
	}

	headerStyle := TableHeaderStyle.Bold(true)
	header := renderTableRow(headers, widths, headerStyle)
	divider := renderTableDivider(widths)

	showSummary := height >= summaryHeight+8
	visibleHeight := height - 3
	if showSummary {
		visibleHeight -= summaryHeight
	}
	m.viewportHeight = visibleHeight
	var rows []string

	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		row := m.rows[i]
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(visible))
		for _, idx := range visible {
			col := m.columns[idx]
			switch col.key {
			case "name":
				cells = append(cells, util.TruncateString(row.Name, col.width))
			case "host":
				cells = append(cells, util.TruncateString(row.HostName, col.width))
			case "group":
				cells = append(cells, util.TruncateString(util.FormatCategory(row.NeighbourhoodGroup), col.width))
			case "area":
				cells = append(cells, util.TruncateString(util.FormatCategory(row.Neighbourhood), col.width))
			case "room":
				cells = append(cells, util.TruncateString(util.FormatCategory(row.RoomType), col.width))
			case "price":
				cells = append(cells, util.FormatPrice(row.Price))
			case "rate":
				rateCell := "—"
				if row.ReviewRate != nil {
					rateCell = lipgloss.NewStyle().Foreground(ColorYellow).Render(util.FormatReviewRate(row.ReviewRate))
				}
				cells = append(cells, rateCell)
			case "reviews":
				cells = append(cells, util.FormatCount(row.NumberOfReviews))
			case "avail":
				cells = append(cells, util.FormatCount(row.Availability365))
			case "policy":
				cells = append(cells, util.TruncateString(util.FormatCategory(row.CancellationPolicy), col.width))
			}
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	filterInfo := ""
	if m.filterKey != "" {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(m.rows), len(m.allRows))
	}
	meta := m.TableMeta()
	if meta != "" {
		meta = "  ·  " + meta
	}
	rowPos := ""
	if len(m.rows) > 0 {
		rowPos = fmt.Sprintf("  ·  row %d/%d", m.cursor+1, len(m.rows))
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%s listings%s%s%s", util.FormatInt(len(m.rows)), rowPos, filterInfo, meta))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	statusHeight := lipgloss.Height(status)
	contentHeight := lipgloss.Height(content)

	var summary string
	if showSummary {
		summary = m.renderSummary()
	}
	spacerHeight := max(0, height-contentHeight-statusHeight-lipgloss.Height(summary))
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	parts := []string{content, spacer}
	if summary != "" {
		parts = append(parts, summary)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSummary renders count, mean, std, min, quartiles and max per numeric column.
func (m *ListingsModel) renderSummary() string {
	if m.stale {
		m.summary = dataset.Summarize(m.rows)
		m.stale = false
	}

	labels := []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	widths := []int{20, 9, 10, 10, 10, 10, 10, 10, 10}

	headers := make([]string, len(labels))
	for i, l := range labels {
		headers[i] = formatHeaderLabel(l)
	}

	lines := []string{
		renderTableRow(headers, widths, TableHeaderStyle.Bold(true)),
		renderTableDivider(widths),
	}
	for _, s := range m.summary {
		cells := []string{
			s.Column,
			util.FormatInt(s.Count),
			util.FormatStat(s.Mean),
			util.FormatStat(s.Std),
			util.FormatStat(s.Min),
			util.FormatStat(s.Q25),
			util.FormatStat(s.Median),
			util.FormatStat(s.Q75),
			util.FormatStat(s.Max),
		}
		lines = append(lines, renderTableRow(cells, widths, NormalRowStyle))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// MoveDown moves the cursor down.
func (m *ListingsModel) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
		vh := m.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if m.cursor >= m.offset+vh {
			m.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (m *ListingsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < m.offset {
			m.offset--
		}
	}
}

// JumpToTop jumps to the first item.
func (m *ListingsModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *ListingsModel) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
		vh := m.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if m.cursor >= vh {
			m.offset = m.cursor - vh + 1
		}
	}
}

// HalfPageDown moves down half a page.
func (m *ListingsModel) HalfPageDown(pageSize int) {
	if len(m.rows) == 0 {
		return
	}
	halfPage := pageSize / 2
	m.cursor += halfPage
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	vh := m.viewportHeight
	if vh == 0 {
		vh = 10
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (m *ListingsModel) HalfPageUp(pageSize int) {
	halfPage := pageSize / 2
	m.cursor -= halfPage
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}
