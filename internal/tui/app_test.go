package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultview/internal/config"
	"github.com/gerunddev/vaultview/internal/state"
	"github.com/gerunddev/vaultview/internal/vault"
)

func testVault(t *testing.T) vault.Vault {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"alpha.md":         "# Alpha\n\nFirst note with some words.\n\n## Details\n\nMore text here.\n",
		"projects/beta.md": "# Beta\n\n- [ ] task\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return vault.Vault{Name: "test", Path: root}
}

// drain runs cmd and every command it batches, returning the messages
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// send delivers msg and then every message its commands produce
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			continue
		}
		model, cmd := m.Update(next)
		m = model.(Model)
		queue = append(queue, drain(cmd)...)
	}
	return m
}

func startModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(opts)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	for _, msg := range drain(m.Init()) {
		m = send(t, m, msg)
	}
	return m
}

func TestBrowseOpensNote(t *testing.T) {
	v := testVault(t)
	m := startModel(t, Options{Vault: v})

	if m.explorer.Len() != 2 {
		t.Fatalf("explorer has %d notes, want 2", m.explorer.Len())
	}
	if m.explorer.Selected() != "alpha.md" {
		t.Fatalf("selected = %q, want alpha.md", m.explorer.Selected())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.note.path != "alpha.md" {
		t.Fatalf("open note = %q, want alpha.md", m.note.path)
	}
	if m.focus != paneNote {
		t.Error("focus should move to the note")
	}

	view := m.View()
	for _, want := range []string{"ALPHA", "vaultview", "alpha.md", "words"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBrowseNavigatesExplorer(t *testing.T) {
	m := startModel(t, Options{Vault: testVault(t)})

	m = send(t, m, runeKey("j"))
	if m.explorer.Selected() != "projects/beta.md" {
		t.Fatalf("selected = %q, want projects/beta.md", m.explorer.Selected())
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.note.path != "projects/beta.md" {
		t.Errorf("open note = %q", m.note.path)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != paneExplorer {
		t.Error("tab should return focus to the explorer")
	}
}

func TestBrowseRestoresLastNote(t *testing.T) {
	v := testVault(t)
	st := state.NewState()
	st.Remember(v.Name, "projects/beta.md", 0)

	m := startModel(t, Options{Vault: v, State: st})
	if m.note.path != "projects/beta.md" {
		t.Errorf("restored note = %q, want projects/beta.md", m.note.path)
	}
}

func TestQuitRemembersPosition(t *testing.T) {
	v := testVault(t)
	st := state.NewState()
	m := startModel(t, Options{Vault: v, State: st})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if st.LastVault != v.Name || st.LastNote(v.Name) != "alpha.md" {
		t.Errorf("state not remembered: %+v", st)
	}
}

func TestCustomQuitKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KeyBindings[config.ActionQuit] = []string{"x"}
	m := startModel(t, Options{Vault: testVault(t), Config: cfg})

	if _, cmd := m.Update(runeKey("q")); cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("q should not quit when rebound")
		}
	}
	_, cmd := m.Update(runeKey("x"))
	if cmd == nil {
		t.Fatal("x should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("x should quit")
	}
}

func TestOutlineJump(t *testing.T) {
	m := startModel(t, Options{Vault: testVault(t)})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = send(t, m, runeKey("o"))
	if m.mode != modeOutline {
		t.Fatal("o should open the outline")
	}
	if m.outline.Len() != 2 {
		t.Fatalf("outline has %d entries, want 2", m.outline.Len())
	}
	for _, want := range []string{"Alpha", "  Details"} {
		if !strings.Contains(m.outline.table.View(), want) {
			t.Errorf("outline pane missing %q", want)
		}
	}

	// Three rows inside the pane: the header, its border and one entry
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 8})
	if h := m.outline.table.Height(); h != 1 {
		t.Errorf("outline shows %d rows, want 1", h)
	}
	if !strings.Contains(m.outline.table.View(), "Alpha") {
		t.Error("selected heading should stay visible in a short pane")
	}

	m = send(t, m, runeKey("j"))
	entry, _ := m.outline.Selected()
	if entry.Title != "Details" {
		t.Fatalf("selected heading = %q", entry.Title)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse || m.focus != paneNote {
		t.Error("enter should return to the note")
	}
	want := m.note.LineFor(entry.Range.Start)
	if want == 0 {
		t.Fatal("second heading should not be on the first line")
	}
	if m.note.Offset() != want {
		t.Errorf("offset = %d, want %d", m.note.Offset(), want)
	}
}

func TestFileEvents(t *testing.T) {
	v := testVault(t)
	m := startModel(t, Options{Vault: v})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	path := filepath.Join(v.Path, "alpha.md")
	if err := os.WriteFile(path, []byte("# Changed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, FileEventMsg{Event: vault.Event{Kind: vault.Updated, Path: "alpha.md"}})
	if !strings.Contains(m.View(), "CHANGED") {
		t.Error("note should be reloaded after an update")
	}

	if err := os.WriteFile(filepath.Join(v.Path, "gamma.md"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, FileEventMsg{Event: vault.Event{Kind: vault.Created, Path: "gamma.md"}})
	if m.explorer.Len() != 3 {
		t.Errorf("explorer has %d notes after create, want 3", m.explorer.Len())
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	m = send(t, m, FileEventMsg{Event: vault.Event{Kind: vault.Deleted, Path: "alpha.md"}})
	if m.note.Loaded() {
		t.Error("deleted note should be closed")
	}
	if m.explorer.Len() != 2 {
		t.Errorf("explorer has %d notes after delete, want 2", m.explorer.Len())
	}
}

func TestVaultPicker(t *testing.T) {
	first, second := testVault(t), testVault(t)
	second.Name = "second"

	m := startModel(t, Options{Vaults: []vault.Vault{first, second}})
	if m.mode != modeVaults {
		t.Fatal("picker should show without a vault")
	}
	if !strings.Contains(m.View(), "second") {
		t.Error("picker should list vaults")
	}

	m = send(t, m, runeKey("j"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeBrowse || m.vault.Name != "second" {
		t.Fatalf("mode=%v vault=%q", m.mode, m.vault.Name)
	}
	if m.explorer.Len() != 2 {
		t.Errorf("explorer has %d notes, want 2", m.explorer.Len())
	}
}

func TestWatchStarts(t *testing.T) {
	v := testVault(t)
	started := make(chan string, 1)
	opts := Options{
		Vault: v,
		Watch: func(ctx context.Context, w vault.Vault) error {
			started <- w.Path
			return nil
		},
	}
	startModel(t, opts)
	select {
	case path := <-started:
		if path != v.Path {
			t.Errorf("watch started on %q, want %q", path, v.Path)
		}
	default:
		t.Error("watch was not started")
	}
}

func TestTablesFillPanes(t *testing.T) {
	m := startModel(t, Options{Vault: testVault(t)})
	inner := 30 - chromeRows - 2
	// Everything but the header and its border holds rows
	if h := m.explorer.table.Height(); h != inner-2 {
		t.Errorf("explorer shows %d rows, want %d", h, inner-2)
	}
	view := m.explorer.table.View()
	for _, want := range []string{"alpha", "beta", "projects"} {
		if !strings.Contains(view, want) {
			t.Errorf("explorer missing %q", want)
		}
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 8})
	if h := m.explorer.table.Height(); h != 1 {
		t.Errorf("short explorer shows %d rows, want 1", h)
	}
	if !strings.Contains(m.explorer.table.View(), "alpha") {
		t.Error("selected note should stay visible in a short pane")
	}
}

func TestFrontMatterShown(t *testing.T) {
	root := t.TempDir()
	note := "---\ntitle: Weekly Review\ntags: [work, \"#review\"]\naliases: [weekly]\n---\n# Heading\n"
	if err := os.WriteFile(filepath.Join(root, "week.md"), []byte(note), 0644); err != nil {
		t.Fatal(err)
	}
	m := startModel(t, Options{Vault: vault.Vault{Name: "v", Path: root}})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	for _, want := range []string{"Weekly Review", "(weekly)", "#work #review"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTagList(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"none", nil, ""},
		{"plain", []string{"a", "b"}, "#a #b"},
		{"hashed", []string{"#a", " b "}, "#a #b"},
		{"empty entries", []string{"", "#"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagList(tt.tags); got != tt.want {
				t.Errorf("tagList(%q) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}

func TestHelpMode(t *testing.T) {
	m := startModel(t, Options{Vault: testVault(t)})
	m = send(t, m, runeKey("?"))
	if m.mode != modeHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "page down") {
		t.Error("full help should list all bindings")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse {
		t.Error("esc should close help")
	}
}
