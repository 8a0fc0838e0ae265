package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"airdash/internal/model"
)

// undoAction records one criteria change.
type undoAction struct {
	label  string
	before model.FilterCriteria
	after  model.FilterCriteria
}

type undoAppliedMsg struct {
	action    undoAction
	direction string // undo, redo
}

// maxUndo bounds the history; the oldest change is dropped first.
const maxUndo = 100

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	if len(m.undoStack) > maxUndo {
		m.undoStack = m.undoStack[len(m.undoStack)-maxUndo:]
	}
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return func() tea.Msg {
		return undoAppliedMsg{action: action, direction: "undo"}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return func() tea.Msg {
		return undoAppliedMsg{action: action, direction: "redo"}
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) {
	if msg.direction == "undo" {
		m.redoStack = append(m.redoStack, msg.action)
		m.criteria = msg.action.before.Clone()
		m.info = "Undid: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		m.criteria = msg.action.after.Clone()
		m.info = "Redid: " + msg.action.label
	}
	m.error = ""
	m.applyCriteria()
}
