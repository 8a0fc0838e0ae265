package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdash/internal/dataset"
	"airdash/internal/db"
	"airdash/internal/model"
)

func testListings() []model.Listing {
	base := func(row int, name, group, hood, room, policy string, price, rate float64, reviews int) model.Listing {
		return model.Listing{
			Row:                row,
			Name:               name,
			HostName:           "Host",
			NeighbourhoodGroup: group,
			Neighbourhood:      hood,
			RoomType:           room,
			CancellationPolicy: policy,
			Price:              model.Float(price),
			ReviewRate:         model.Float(rate),
			NumberOfReviews:    model.Int(reviews),
			Availability365:    model.Int(120),
			Latitude:           model.Float(40.7 + float64(row)/100),
			Longitude:          model.Float(-73.9 - float64(row)/100),
			NoSmoking:          model.Bool(false),
			NoParty:            model.Bool(false),
			NoPet:              model.Bool(false),
		}
	}
	ls := []model.Listing{
		base(0, "Sunny Loft", "Brooklyn", "Williamsburg", "Entire home/apt", "strict", 150, 4, 10),
		base(1, "Cozy Room", "Brooklyn", "Bushwick", "Private room", "flexible", 60, 5, 3),
		base(2, "Park Studio", "Manhattan", "Harlem", "Entire home/apt", "moderate", 200, 5, 8),
	}
	ls[2].NoSmoking = model.Bool(true)
	return ls
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// press sends keys in order and discards the returned commands.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyPress(k))
	}
	return m
}

// pressAndRun sends one key and feeds the message its command produces back in.
func pressAndRun(t *testing.T, m Model, k string) Model {
	t.Helper()
	m, cmd := update(t, m, keyPress(k))
	require.NotNil(t, cmd, "key %q produced no command", k)
	m, _ = update(t, m, cmd())
	return m
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := New(nil, DataSource{Path: "listings.csv", Options: dataset.DefaultOptions()}, TerminalCapabilities{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 45})
	m, _ = update(t, m, datasetLoadedMsg{ds: dataset.New("listings.csv", testListings())})
	return m
}

func filteredRows(m Model) []int {
	out := make([]int, 0, len(m.filtered))
	for _, l := range m.filtered {
		out = append(out, l.Row)
	}
	return out
}

func TestDatasetLoadedSelectsEverything(t *testing.T) {
	m := loadedModel(t)

	assert.False(t, m.loading)
	assert.Equal(t, []int{0, 1, 2}, filteredRows(m))
	require.True(t, m.hasBest)
	assert.Equal(t, 2, m.best.Row)
	assert.Equal(t, model.PriceRange{Min: 60, Max: 200}, m.criteria.Price)
	assert.Contains(t, m.View(), "Park Studio")
	assert.Empty(t, m.undoStack)
}

func TestLoadErrorIsShown(t *testing.T) {
	m := New(nil, DataSource{Path: "missing.csv"}, TerminalCapabilities{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, model.ErrorMsg{Err: &dataset.SchemaError{Source: "missing.csv", Missing: []string{"price"}}})

	assert.False(t, m.loading)
	assert.Nil(t, m.ds)
	assert.Contains(t, m.View(), "Could not load the dataset.")
}

func TestToggleGroupUndoRedo(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, "f")
	assert.Equal(t, model.FocusFilters, m.focus)

	// cursor on Manhattan
	m = press(t, m, "j", "space")
	assert.Equal(t, []string{"Brooklyn"}, m.criteria.Groups)
	assert.Equal(t, []int{0, 1}, filteredRows(m))
	assert.Equal(t, 1, m.best.Row)

	m = pressAndRun(t, m, "u")
	assert.Equal(t, []string{"Brooklyn", "Manhattan"}, m.criteria.Groups)
	assert.Equal(t, 2, m.best.Row)
	assert.Contains(t, m.info, "Undid")

	m = pressAndRun(t, m, "ctrl+r")
	assert.Equal(t, []string{"Brooklyn"}, m.criteria.Groups)
	assert.Equal(t, 1, m.best.Row)
	assert.Contains(t, m.info, "Redid")
}

func TestNothingToUndo(t *testing.T) {
	m := loadedModel(t)
	m, cmd := update(t, m, keyPress("u"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to undo", m.info)
}

func TestHouseRuleCycles(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "f")
	for i := 0; i < 9; i++ {
		m = press(t, m, "j")
	}
	item, ok := m.filters.Selected(m.ds)
	require.True(t, ok)
	require.Equal(t, sectionHouseRules, item.section)
	require.Equal(t, ruleSmoking, item.value)

	m = press(t, m, "space")
	require.NotNil(t, m.criteria.NoSmoking)
	assert.True(t, *m.criteria.NoSmoking)
	assert.Equal(t, []int{2}, filteredRows(m))

	m = press(t, m, "space")
	require.NotNil(t, m.criteria.NoSmoking)
	assert.False(t, *m.criteria.NoSmoking)
	assert.Equal(t, []int{0, 1}, filteredRows(m))

	m = press(t, m, "space")
	assert.Nil(t, m.criteria.NoSmoking)
	assert.Equal(t, []int{0, 1, 2}, filteredRows(m))
}

func TestEmptyResultShowsNoResult(t *testing.T) {
	m := loadedModel(t)
	m, _ = update(t, m, model.PriceSubmittedMsg{Price: model.PriceRange{Min: 300, Max: 400}})

	assert.Empty(t, m.filtered)
	assert.False(t, m.hasBest)
	assert.Empty(t, m.error)
	assert.Contains(t, m.View(), "No listings match your filter criteria.")

	m = press(t, m, "right")
	assert.Contains(t, m.View(), "No listings match your filter criteria.")
}

func TestResetWithoutChangeIsNotRecorded(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "r")
	assert.Empty(t, m.undoStack)
	assert.Equal(t, "No change", m.info)

	m, _ = update(t, m, model.PriceSubmittedMsg{Price: model.PriceRange{Min: 100, Max: 200}})
	m = press(t, m, "r")
	assert.Len(t, m.undoStack, 2)
	assert.Equal(t, model.PriceRange{Min: 60, Max: 200}, m.criteria.Price)
}

func TestPriceNudgeFromPanel(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "f")
	for i := 0; i < 7; i++ {
		m = press(t, m, "j")
	}
	item, _ := m.filters.Selected(m.ds)
	require.Equal(t, sectionPrice, item.section)
	require.Equal(t, boundMin, item.value)

	m = press(t, m, "+")
	assert.Equal(t, 63.0, m.criteria.Price.Min)

	m = press(t, m, "-", "-")
	assert.Equal(t, 60.0, m.criteria.Price.Min)
}

func TestPriceFormOpenAndCancel(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "p")
	assert.Equal(t, model.ScreenPriceForm, m.screen)
	assert.Equal(t, model.ModeInsert, m.mode)
	require.NotNil(t, m.priceForm)

	m = pressAndRun(t, m, "esc")
	assert.Equal(t, model.ScreenHome, m.screen)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Nil(t, m.priceForm)
}

func TestTabNavigation(t *testing.T) {
	m := loadedModel(t)

	m = press(t, m, "right")
	assert.Equal(t, model.ScreenVisualization, m.screen)
	m = press(t, m, "right")
	assert.Equal(t, model.ScreenDetail, m.screen)
	m = press(t, m, "right")
	assert.Equal(t, model.ScreenHome, m.screen)
	m = press(t, m, "left")
	assert.Equal(t, model.ScreenDetail, m.screen)
	m = press(t, m, "2")
	assert.Equal(t, model.ScreenVisualization, m.screen)

	m = press(t, m, "tab")
	assert.Equal(t, chartRoomPrice, m.charts.active)
	m = press(t, m, "shift+tab", "shift+tab")
	assert.Equal(t, chartScatter, m.charts.active)
}

func TestFilterFocusBlocksTabKeys(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "f", "right")
	assert.Equal(t, model.ScreenHome, m.screen)

	m = press(t, m, "esc")
	assert.Equal(t, model.FocusContent, m.focus)
}

func TestOpenListingDetail(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "3", "j", "enter")
	require.Equal(t, model.ScreenListingDetail, m.screen)
	require.NotNil(t, m.listingDetail)
	assert.Equal(t, 1, m.listingDetail.listing.Row)
	assert.Contains(t, m.View(), "Cozy Room")

	m = press(t, m, "esc")
	assert.Equal(t, model.ScreenDetail, m.screen)
	assert.Nil(t, m.listingDetail)
}

func TestColumnJump(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "3", "/", "6")
	assert.False(t, m.columnJump)
	assert.Equal(t, 5, m.listings.activeColumn)

	m = press(t, m, "/", "0")
	assert.True(t, m.columnJump)
	assert.Equal(t, "Column 0 unavailable", m.info)
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "?")
	assert.True(t, m.showingHelp)
	assert.Contains(t, m.View(), "Filter Panel")

	m = press(t, m, "q")
	assert.True(t, m.showingHelp)

	m = press(t, m, "esc")
	assert.False(t, m.showingHelp)
}

func TestUndoHistoryIsBounded(t *testing.T) {
	m := loadedModel(t)
	for i := 0; i < maxUndo+5; i++ {
		m.pushUndoAction(undoAction{label: "change"})
	}
	assert.Len(t, m.undoStack, maxUndo)
	assert.Nil(t, m.redoStack)
}

func TestClearingGroupsMatchesNothing(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "f", "A")

	assert.Empty(t, m.criteria.Groups)
	assert.Empty(t, m.filtered)
	assert.False(t, m.hasBest)
	assert.Contains(t, m.View(), "No listings match your filter criteria.")

	m = pressAndRun(t, m, "u")
	assert.Equal(t, []int{0, 1, 2}, filteredRows(m))
}

const loaderCSV = "id,NAME,host name,neighbourhood group,neighbourhood,room type,price,cancellation_policy,lat,long,number of reviews,review rate number,availability 365,no_smoking,no_party,no_pet,house_rules\n" +
	"1001,Cozy Loft,Ana,Brooklyn,Williamsburg,Entire home/apt,150,strict,40.71,-73.95,12,4,200,True,False,False,No shoes inside\n" +
	"1002,Quiet Room,Ben,Manhattan,Harlem,Private room,85,moderate,40.81,-73.94,3,5,30,False,True,False,\n"

func TestLoadDatasetCmdUsesCache(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer database.Close()

	path := filepath.Join(dir, "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(loaderCSV), 0644))
	src := DataSource{Path: path, Options: dataset.DefaultOptions()}

	first, ok := loadDatasetCmd(database, src)().(datasetLoadedMsg)
	require.True(t, ok)
	assert.False(t, first.cached)
	require.Equal(t, 2, first.ds.Len())

	second, ok := loadDatasetCmd(database, src)().(datasetLoadedMsg)
	require.True(t, ok)
	assert.True(t, second.cached)
	assert.Equal(t, first.ds.Listings, second.ds.Listings)
}

func TestLoadDatasetCmdRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer database.Close()

	path := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,NAME,neighbourhood group\n1,Flat,Queens\n"), 0644))

	msg, ok := loadDatasetCmd(database, DataSource{Path: path, Options: dataset.DefaultOptions()})().(model.ErrorMsg)
	require.True(t, ok)
	var se *dataset.SchemaError
	require.True(t, errors.As(msg.Err, &se))
	assert.NotEmpty(t, se.Missing)

	fp, err := db.FingerprintFile(path)
	require.NoError(t, err)
	_, found, err := db.LoadListings(database, fp)
	require.NoError(t, err)
	assert.False(t, found, "a file that fails to parse is not cached")
}

func TestLoadDatasetCmdMissingFile(t *testing.T) {
	msg, ok := loadDatasetCmd(nil, DataSource{Path: filepath.Join(t.TempDir(), "nope.csv")})().(model.ErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, os.ErrNotExist)
}
