package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultview/internal/vault"
)

// FileEventMsg is sent when a note in the open vault changes on disk
type FileEventMsg struct {
	Event vault.Event
}

// notesMsg carries the notes of a vault
type notesMsg struct {
	vault vault.Vault
	notes []vault.Note
	err   error
}

// noteMsg carries the raw contents of a note. Parsing happens in Update
type noteMsg struct {
	vault  vault.Vault
	path   string
	data   []byte
	reload bool
	err    error
}

// watchErrMsg is sent when the file watcher stops with an error
type watchErrMsg struct {
	err error
}

func loadNotes(v vault.Vault) tea.Cmd {
	return func() tea.Msg {
		notes, err := v.Notes()
		return notesMsg{vault: v, notes: notes, err: err}
	}
}

func loadNote(v vault.Vault, path string, reload bool) tea.Cmd {
	return func() tea.Msg {
		data, err := v.ReadNote(path)
		return noteMsg{vault: v, path: path, data: data, reload: reload, err: err}
	}
}
