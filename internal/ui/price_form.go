package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"airdash/internal/model"
	"airdash/internal/util"
)

// PriceFormModel edits the inclusive price range of the filter.
type PriceFormModel struct {
	keys         FormKeyMap
	focusedField int
	inputs       []textinput.Model
	bounds       model.PriceRange
	error        string
}

// NewPriceFormModel creates a form prefilled with the current range.
func NewPriceFormModel(current, bounds model.PriceRange) *PriceFormModel {
	inputs := make([]textinput.Model, 2)

	// Min
	inputs[0] = textinput.New()
	inputs[0].Placeholder = formatPriceInput(bounds.Min)
	inputs[0].SetValue(formatPriceInput(current.Min))
	inputs[0].CharLimit = 16
	inputs[0].Focus()

	// Max
	inputs[1] = textinput.New()
	inputs[1].Placeholder = formatPriceInput(bounds.Max)
	inputs[1].SetValue(formatPriceInput(current.Max))
	inputs[1].CharLimit = 16

	return &PriceFormModel{
		keys:   DefaultFormKeyMap(),
		inputs: inputs,
		bounds: bounds,
	}
}

func formatPriceInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Update handles input.
func (m PriceFormModel) Update(msg tea.KeyMsg) (PriceFormModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case key.Matches(msg, m.keys.Save):
		price, err := m.parse()
		if err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.error = ""
		return m, func() tea.Msg {
			return model.PriceSubmittedMsg{Price: price}
		}
	case key.Matches(msg, m.keys.NextField):
		m.nextField()
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.prevField()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
	return m, cmd
}

func (m *PriceFormModel) parse() (model.PriceRange, error) {
	lo, err := util.ParsePriceInput(m.inputs[0].Value())
	if err != nil {
		return model.PriceRange{}, fmt.Errorf("min: %w", err)
	}
	hi, err := util.ParsePriceInput(m.inputs[1].Value())
	if err != nil {
		return model.PriceRange{}, fmt.Errorf("max: %w", err)
	}
	if lo > hi {
		return model.PriceRange{}, fmt.Errorf("min price %s is above max price %s",
			util.FormatPriceValue(lo), util.FormatPriceValue(hi))
	}
	return model.PriceRange{Min: lo, Max: hi}, nil
}

// View renders the form.
func (m *PriceFormModel) View(width, height int) string {
	var fields []string

	fields = append(fields, renderFormField("Min Price", m.inputs[0], m.focusedField == 0))
	fields = append(fields, renderFormField("Max Price", m.inputs[1], m.focusedField == 1))
	fields = append(fields, HelpDescStyle.Render(fmt.Sprintf("Dataset prices span %s to %s. Both bounds are inclusive.",
		util.FormatPriceValue(m.bounds.Min), util.FormatPriceValue(m.bounds.Max))))

	if m.error != "" {
		fields = append(fields, ErrorStyle.Render(m.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(max(1, height-4)).
		Render(strings.Join(fields, "\n\n"))
}

func (m *PriceFormModel) nextField() {
	m.inputs[m.focusedField].Blur()
	m.focusedField = (m.focusedField + 1) % len(m.inputs)
	m.inputs[m.focusedField].Focus()
}

func (m *PriceFormModel) prevField() {
	m.inputs[m.focusedField].Blur()
	m.focusedField--
	if m.focusedField < 0 {
		m.focusedField = len(m.inputs) - 1
	}
	m.inputs[m.focusedField].Focus()
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}
