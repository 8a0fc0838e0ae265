package ui

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"airdash/internal/dataset"
	"airdash/internal/db"
	"airdash/internal/filter"
	"airdash/internal/model"
	"airdash/internal/util"
)

// DataSource names the file the dashboard reads and how to parse it.
type DataSource struct {
	Path    string
	Options dataset.Options
}

type datasetLoadedMsg struct {
	ds      *dataset.Dataset
	cached  bool
	elapsed time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	db               *sql.DB // nil disables the parse cache
	source           DataSource
	termCapabilities TerminalCapabilities
	screen           model.Screen
	formReturn       model.Screen
	mode             model.Mode
	focus            model.Focus
	gState           GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool
	loading     bool

	ds       *dataset.Dataset
	criteria model.FilterCriteria
	filtered []model.Listing
	best     model.Listing
	hasBest  bool

	// Screen models
	filters       *FilterPanel
	charts        *ChartsModel
	listings      *ListingsModel
	listingDetail *ListingDetailModel
	priceForm     *PriceFormModel

	keys      KeyMap
	undoStack []undoAction
	redoStack []undoAction
}

// New creates a new root model.
func New(database *sql.DB, src DataSource, termCaps TerminalCapabilities) Model {
	return Model{
		db:               database,
		source:           src,
		termCapabilities: termCaps,
		screen:           model.ScreenHome,
		mode:             model.ModeNav,
		focus:            model.FocusContent,
		gState:           GStateIdle,
		loading:          true,
		filters:          NewFilterPanel(),
		charts:           NewChartsModel(termCaps),
		listings:         NewListingsModel(nil),
		keys:             DefaultKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return loadDatasetCmd(m.db, m.source)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == model.ModeNav && m.columnJump {
			switch msg.String() {
			case "esc":
				m.columnJump = false
				m.info = ""
				return m, nil
			}
			if n, err := strconv.Atoi(msg.String()); err == nil {
				table := m.currentTable()
				if table != nil && table.JumpToColumn(n) {
					m.columnJump = false
					m.info = fmt.Sprintf("Jumped to column %d", n)
					return m, nil
				}
				m.info = fmt.Sprintf("Column %d unavailable", n)
				return m, nil
			}
			m.columnJump = false
		}

		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Handle help toggle
		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		// Route to mode-specific handlers
		if m.mode == model.ModeNav {
			return m.handleNavMode(msg)
		}
		return m.handleInsertMode(msg)

	case model.ErrorMsg:
		m.loading = false
		m.error = msg.Err.Error()
		return m, nil

	case datasetLoadedMsg:
		m.loading = false
		m.ds = msg.ds
		m.criteria = filter.DefaultCriteria(msg.ds)
		m.undoStack, m.redoStack = nil, nil
		m.error = ""
		source := "parsed"
		if msg.cached {
			source = "cached"
		}
		m.info = fmt.Sprintf("Loaded %s listings (%s in %s)",
			util.FormatInt(msg.ds.Len()), source, msg.elapsed.Round(time.Millisecond))
		m.applyCriteria()
		return m, nil

	case undoAppliedMsg:
		m.applyUndoResult(msg)
		return m, nil

	case model.PriceSubmittedMsg:
		m.closePriceForm()
		c := m.criteria.Clone()
		c.Price = msg.Price
		m.setCriteria(c, fmt.Sprintf("price %s-%s",
			util.FormatPriceValue(msg.Price.Min), util.FormatPriceValue(msg.Price.Max)))
		return m, nil

	case model.FormCancelledMsg:
		m.closePriceForm()
		m.info = "Cancelled"
		return m, nil
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string

	showTabs := m.screen != model.ScreenPriceForm

	// Header: 2 lines, Footer: 2 lines, Tabs: 2 lines (if shown), banners: 1 line each
	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}
	if m.error != "" {
		contentHeight--
	}
	if m.info != "" {
		contentHeight--
	}
	contentHeight = max(1, contentHeight)

	panelWidth := m.filterPanelWidth()
	mainWidth := m.width - panelWidth

	switch m.screen {
	case model.ScreenHome:
		breadcrumbParts = []string{"Home"}
	case model.ScreenVisualization:
		breadcrumbParts = []string{"Visualization", chartTitles[m.charts.active]}
	case model.ScreenDetail:
		breadcrumbParts = []string{"Detail"}
	case model.ScreenListingDetail:
		breadcrumbParts = []string{"Detail", "Listing"}
		if m.listingDetail != nil && strings.TrimSpace(m.listingDetail.listing.Name) != "" {
			breadcrumbParts = []string{"Detail", m.listingDetail.listing.Name}
		}
	case model.ScreenPriceForm:
		breadcrumbParts = []string{"Filters", "Price Range"}
	}

	switch {
	case m.loading:
		content = EmptyStateStyle.Width(m.width).Render("Loading listings from " + m.source.Path + "...")
		panelWidth = 0
	case m.ds == nil:
		content = EmptyStateStyle.Width(m.width).Render("Could not load the dataset.\nCheck the file and its columns, then restart.")
		panelWidth = 0
	default:
		switch m.screen {
		case model.ScreenHome:
			content = renderHome(m.best, m.hasBest, len(m.filtered), m.ds.Len(), m.criteria, mainWidth, contentHeight)
		case model.ScreenVisualization:
			content = m.charts.View(mainWidth, contentHeight)
		case model.ScreenDetail:
			content = m.listings.View(mainWidth, contentHeight)
		case model.ScreenListingDetail:
			if m.listingDetail != nil {
				content = m.listingDetail.View(mainWidth, contentHeight)
			}
		case model.ScreenPriceForm:
			panelWidth = 0
			if m.priceForm != nil {
				content = m.priceForm.View(m.width, contentHeight)
			}
		}
	}

	header := renderHeader(breadcrumbParts, m.source.Path, m.width)
	footer := RenderHelp(m.screen, m.mode, m.focus, m.width)

	// Ensure content fills the available height to anchor footer at bottom
	if panelWidth > 0 {
		main := lipgloss.NewStyle().Width(m.width - panelWidth).MaxWidth(m.width - panelWidth).Height(contentHeight).MaxHeight(contentHeight).Render(content)
		if m.width-panelWidth <= 0 {
			main = ""
		}
		panel := m.filters.View(panelWidth, contentHeight, m.criteria, m.ds, m.focus == model.FocusFilters)
		content = lipgloss.JoinHorizontal(lipgloss.Top, main, panel)
	}
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := []string{header}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// filterPanelWidth is zero on narrow terminals unless the panel has focus,
// in which case it takes the whole width.
func (m Model) filterPanelWidth() int {
	if m.width < 70 {
		if m.focus == model.FocusFilters {
			return m.width
		}
		return 0
	}
	return min(40, max(28, m.width/4))
}

var tabScreens = []model.Screen{model.ScreenHome, model.ScreenVisualization, model.ScreenDetail}

func renderTabs(screen model.Screen, width int) string {
	// Define tabs
	tabs := []struct {
		name   string
		screen model.Screen
	}{
		{"Home", model.ScreenHome},
		{"Visualization", model.ScreenVisualization},
		{"Detail", model.ScreenDetail},
	}

	if screen == model.ScreenListingDetail {
		screen = model.ScreenDetail
	}

	var tabStrings []string
	for _, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, source string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("airdash")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(util.TruncateString(part, 40))
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: data file and current date
	right := BreadcrumbStyle.Render(filepath.Base(source)+"  "+time.Now().Format("Mon 02 Jan")) + "  "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// applyCriteria recomputes the filter result, the best listing and every view
// that depends on them.
func (m *Model) applyCriteria() {
	if m.ds == nil {
		return
	}
	start := time.Now()
	m.filtered = filter.Apply(m.ds.Listings, m.criteria)
	m.best, m.hasBest = filter.Best(m.filtered)
	m.listings.SetRows(m.filtered)
	m.charts.SetListings(m.filtered)

	log.Debug().
		Int("matched", len(m.filtered)).
		Int("total", m.ds.Len()).
		Str("criteria", filter.Describe(m.criteria)).
		Dur("elapsed", time.Since(start)).
		Msg("filter applied")
}

// setCriteria records c as an undoable change and applies it.
func (m *Model) setCriteria(c model.FilterCriteria, label string) {
	if reflect.DeepEqual(c, m.criteria) {
		m.info = "No change"
		return
	}
	m.pushUndoAction(undoAction{label: label, before: m.criteria.Clone(), after: c.Clone()})
	m.criteria = c
	m.error = ""
	m.info = label
	m.applyCriteria()
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.ds == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		return m, m.undoCmd()
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		return m, m.redoCmd()
	case key.Matches(msg, m.keys.Filters):
		if m.focus == model.FocusFilters {
			m.focus = model.FocusContent
		} else {
			m.focus = model.FocusFilters
		}
		return m, nil
	case key.Matches(msg, m.keys.PriceForm):
		return m.openPriceForm()
	case key.Matches(msg, m.keys.Reset):
		m.setCriteria(filter.DefaultCriteria(m.ds), "reset filters")
		return m, nil
	}

	// Handle "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		return m.handleJumpToTop()
	}
	m.gState = GStateIdle

	if m.focus == model.FocusFilters {
		return m.handleFiltersNav(msg)
	}

	switch {
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.HomeTab):
		m.screen = model.ScreenHome
		return m, nil
	case key.Matches(msg, m.keys.ChartsTab):
		m.screen = model.ScreenVisualization
		return m, nil
	case key.Matches(msg, m.keys.DetailTab):
		m.screen = model.ScreenDetail
		return m, nil
	}

	// Screen-specific navigation
	switch m.screen {
	case model.ScreenVisualization:
		return m.handleChartsNav(msg)
	case model.ScreenDetail:
		return m.handleDetailNav(msg)
	case model.ScreenListingDetail:
		return m.handleListingDetailNav(msg)
	}

	return m, nil
}

func (m *Model) switchTab(dir int) {
	current := m.screen
	if current == model.ScreenListingDetail {
		current = model.ScreenDetail
	}
	for i, s := range tabScreens {
		if s == current {
			m.screen = tabScreens[(i+dir+len(tabScreens))%len(tabScreens)]
			return
		}
	}
	m.screen = model.ScreenHome
}

func (m Model) handleJumpToTop() (tea.Model, tea.Cmd) {
	if m.focus == model.FocusFilters {
		m.filters.JumpToTop()
		return m, nil
	}
	if m.screen == model.ScreenDetail {
		m.listings.JumpToTop()
	}
	return m, nil
}

func (m Model) handleFiltersNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.filters.MoveDown(m.ds)
	case key.Matches(msg, m.keys.Up):
		m.filters.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		m.filters.JumpToBottom(m.ds)
	case key.Matches(msg, m.keys.Toggle):
		item, ok := m.filters.Selected(m.ds)
		if !ok {
			return m, nil
		}
		if item.toggle {
			m.filters.ToggleAdvanced()
			return m, nil
		}
		if item.section == sectionPrice {
			return m.openPriceForm()
		}
		if c, label, ok := toggleItem(m.criteria, item, m.ds); ok {
			m.setCriteria(c, label)
		}
	case key.Matches(msg, m.keys.SelectAll):
		if item, ok := m.filters.Selected(m.ds); ok {
			if c, ok := selectAll(m.criteria, item, m.ds); ok {
				m.setCriteria(c, "select all: "+sectionTitles[item.section])
			}
		}
	case key.Matches(msg, m.keys.SelectNone):
		if item, ok := m.filters.Selected(m.ds); ok {
			if c, ok := selectNone(m.criteria, item); ok {
				m.setCriteria(c, "cleared: "+sectionTitles[item.section])
			}
		}
	case key.Matches(msg, m.keys.PriceUp), key.Matches(msg, m.keys.PriceDown):
		item, ok := m.filters.Selected(m.ds)
		bounds, hasPrice := m.ds.PriceBounds()
		if !ok || item.section != sectionPrice || !hasPrice {
			m.info = "Move to a price bound to adjust it"
			return m, nil
		}
		dir := 1
		if key.Matches(msg, m.keys.PriceDown) {
			dir = -1
		}
		c := nudgePrice(m.criteria, item.value, dir, bounds)
		m.setCriteria(c, fmt.Sprintf("price %s-%s",
			util.FormatPriceValue(c.Price.Min), util.FormatPriceValue(c.Price.Max)))
	case key.Matches(msg, m.keys.Back):
		m.focus = model.FocusContent
	}
	return m, nil
}

func (m Model) handleChartsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextChart):
		m.charts.NextChart()
	case key.Matches(msg, m.keys.PrevChart):
		m.charts.PrevChart()
	}
	return m, nil
}

func (m *Model) currentTable() tableController {
	if m.screen == model.ScreenDetail && m.listings != nil {
		return m.listings
	}
	return nil
}

func (m Model) handleDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			return m, nil
		case key.Matches(msg, m.keys.ColumnJump):
			m.columnJump = true
			m.info = "Jump to column: press 1-9 (esc to cancel)"
			return m, nil
		case key.Matches(msg, m.keys.SortAsc):
			t.SortActiveColumn(false)
			m.info = "Sorted ascending"
			return m, nil
		case key.Matches(msg, m.keys.SortDesc):
			t.SortActiveColumn(true)
			m.info = "Sorted descending"
			return m, nil
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
			} else {
				m.info = "Cannot hide last visible column"
			}
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			return m, nil
		case key.Matches(msg, m.keys.FilterValue):
			if t.FilterBySelectedValue() {
				m.info = "Filter applied from selected value: " + t.TableMeta()
			} else {
				m.info = "No filterable value in selected cell"
			}
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			if t.ClearFilter() {
				m.info = "Filter cleared"
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.listings.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.listings.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		m.listings.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.listings.HalfPageDown(m.height)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.listings.HalfPageUp(m.height)
	case key.Matches(msg, m.keys.Select):
		if l, ok := m.listings.Selected(); ok {
			m.listingDetail = NewListingDetailModel(l)
			m.screen = model.ScreenListingDetail
		}
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenHome
	}
	return m, nil
}

func (m Model) handleListingDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.screen = model.ScreenDetail
		m.listingDetail = nil
	}
	return m, nil
}

func (m Model) openPriceForm() (tea.Model, tea.Cmd) {
	bounds, ok := m.ds.PriceBounds()
	if !ok {
		m.info = "No listing has a price"
		return m, nil
	}
	m.priceForm = NewPriceFormModel(m.criteria.Price, bounds)
	m.formReturn = m.screen
	m.screen = model.ScreenPriceForm
	m.mode = model.ModeInsert
	return m, textinput.Blink
}

func (m *Model) closePriceForm() {
	m.priceForm = nil
	m.mode = model.ModeNav
	if m.screen == model.ScreenPriceForm {
		m.screen = m.formReturn
	}
}

// handleInsertMode handles insert/edit mode input.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == model.ScreenPriceForm && m.priceForm != nil {
		newForm, cmd := m.priceForm.Update(msg)
		m.priceForm = &newForm
		return m, cmd
	}
	return m, nil
}

// loadDatasetCmd reads the listings file, going through the parse cache when
// one is open. Cache failures are logged and never fail the load.
func loadDatasetCmd(database *sql.DB, src DataSource) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		fp, err := db.FingerprintFile(src.Path)
		if err != nil {
			log.Error().Err(err).Str("path", src.Path).Msg("dataset unavailable")
			return model.ErrorMsg{Err: fmt.Errorf("failed to open dataset: %w", err)}
		}

		if database != nil {
			listings, found, err := db.LoadListings(database, fp)
			switch {
			case err != nil:
				log.Warn().Err(err).Str("path", fp.Path).Msg("cache read failed")
			case found:
				elapsed := time.Since(start)
				log.Info().Str("path", fp.Path).Int("rows", len(listings)).Dur("elapsed", elapsed).Msg("dataset loaded from cache")
				return datasetLoadedMsg{ds: dataset.New(src.Path, listings), cached: true, elapsed: elapsed}
			}
		}

		ds, err := dataset.Load(src.Path, src.Options)
		if err != nil {
			log.Error().Err(err).Str("path", src.Path).Msg("dataset load failed")
			return model.ErrorMsg{Err: err}
		}

		if database != nil {
			if err := db.StoreListings(database, fp, ds.Listings); err != nil {
				log.Warn().Err(err).Str("path", fp.Path).Msg("cache write failed")
			}
		}

		elapsed := time.Since(start)
		log.Info().Str("path", src.Path).Int("rows", ds.Len()).Dur("elapsed", elapsed).Msg("dataset parsed")
		return datasetLoadedMsg{ds: ds, elapsed: elapsed}
	}
}
