package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// PriceSubmittedMsg is sent when the price form is saved.
type PriceSubmittedMsg struct {
	Price PriceRange
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenVisualization
	ScreenDetail
	ScreenListingDetail
	ScreenPriceForm
)

// Focus represents which pane receives navigation keys.
type Focus int

const (
	FocusContent Focus = iota
	FocusFilters
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
