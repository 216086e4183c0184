package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/gerunddev/vaultview/internal/vault"
)

// explorerModel lists the notes of the open vault
type explorerModel struct {
	table table.Model
	notes []vault.Note
}

func newExplorerModel() explorerModel {
	return explorerModel{table: newTable(explorerColumns(40), 10)}
}

func explorerColumns(width int) []table.Column {
	// Two columns, each with one cell of padding on both sides
	inner := max(width-4, 10)
	folder := inner / 3
	return []table.Column{
		{Title: "Note", Width: inner - folder},
		{Title: "Folder", Width: folder},
	}
}

func (e *explorerModel) SetSize(width, height int) {
	e.table.SetColumns(explorerColumns(width))
	e.table.SetWidth(width)
	setTableHeight(&e.table, height)
}

// SetNotes replaces the listed notes, keeping the cursor on the same note
// when it is still present
func (e *explorerModel) SetNotes(notes []vault.Note) {
	selected := e.Selected()
	e.notes = notes

	rows := make([]table.Row, len(notes))
	cursor := 0
	for i, n := range notes {
		rows[i] = table.Row{n.Name(), n.Dir()}
		if n.Path == selected {
			cursor = i
		}
	}
	e.table.SetRows(rows)
	e.table.SetCursor(cursor)
}

// Selected returns the path of the note under the cursor
func (e *explorerModel) Selected() string {
	i := e.table.Cursor()
	if i < 0 || i >= len(e.notes) {
		return ""
	}
	return e.notes[i].Path
}

// Select moves the cursor to path and reports whether it was found
func (e *explorerModel) Select(path string) bool {
	for i, n := range e.notes {
		if n.Path == path {
			e.table.SetCursor(i)
			return true
		}
	}
	return false
}

func (e *explorerModel) Len() int {
	return len(e.notes)
}
