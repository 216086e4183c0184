// Package tui is the interactive vault browser
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/vaultview/internal/config"
	"github.com/gerunddev/vaultview/internal/logger"
	"github.com/gerunddev/vaultview/internal/markdown"
	"github.com/gerunddev/vaultview/internal/state"
	"github.com/gerunddev/vaultview/internal/vault"
)

type mode int

const (
	modeBrowse mode = iota
	modeOutline
	modeVaults
	modeHelp
)

type pane int

const (
	paneExplorer pane = iota
	paneNote
)

// Options wires the browser to its collaborators
type Options struct {
	Config *config.Config
	State  *state.State
	Logger *logger.Logger
	// Vaults are the registered vaults offered by the vault picker
	Vaults []vault.Vault
	// Vault is opened on start. With no path the picker is shown instead
	Vault vault.Vault
	// Watch, when set, blocks reporting changes under v until ctx is done
	Watch func(ctx context.Context, v vault.Vault) error
}

// Model is the root bubbletea model
type Model struct {
	opts Options
	keys keyMap
	help help.Model

	mode  mode
	focus pane

	vault    vault.Vault
	explorer explorerModel
	note     noteModel
	outline  outlineModel
	vaults   vaultsModel

	watchCtx    context.Context
	cancelWatch context.CancelFunc

	status string
	err    error
	width  int
	height int
}

// New creates the browser model
func New(opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.State == nil {
		opts.State = state.NewState()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	m := Model{
		opts:     opts,
		keys:     newKeyMap(opts.Config.KeyBindings),
		help:     help.New(),
		vault:    opts.Vault,
		explorer: newExplorerModel(),
		note:     newNoteModel(opts.Config.MaxWidth, opts.Logger),
		outline:  newOutlineModel(),
		vaults:   newVaultsModel(opts.Vaults),
	}
	m.help.ShortSeparator = " • "

	if m.vault.Path == "" {
		m.mode = modeVaults
	} else {
		m.vaults.Select(m.vault.Path)
		m.watchCtx, m.cancelWatch = context.WithCancel(context.Background())
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.vault.Path == "" {
		return nil
	}
	return tea.Batch(loadNotes(m.vault), m.watch(m.watchCtx, m.vault))
}

func (m Model) watch(ctx context.Context, v vault.Vault) tea.Cmd {
	if m.opts.Watch == nil || ctx == nil {
		return nil
	}
	watch := m.opts.Watch
	return func() tea.Msg {
		if err := watch(ctx, v); err != nil {
			return watchErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case notesMsg:
		if msg.vault.Path != m.vault.Path {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		first := m.explorer.Len() == 0
		m.explorer.SetNotes(msg.notes)
		if first {
			m.opts.Logger.VaultOpened(m.vault.Name, m.vault.Path, len(msg.notes))
			m.status = fmt.Sprintf("%d notes", len(msg.notes))
			if last := m.opts.State.LastNote(m.vault.Name); last != "" && !m.note.Loaded() && m.explorer.Select(last) {
				return m, loadNote(m.vault, last, false)
			}
		}
		return m, nil

	case noteMsg:
		if msg.vault.Path != m.vault.Path {
			return m, nil
		}
		if msg.err != nil {
			m.opts.Logger.NoteError(msg.path, msg.err)
			m.err = msg.err
			return m, nil
		}
		m.openDocument(msg)
		return m, nil

	case FileEventMsg:
		return m.handleFileEvent(msg.Event)

	case watchErrMsg:
		m.opts.Logger.WatchError(m.vault.Path, msg.err)
		m.err = fmt.Errorf("watcher stopped: %w", msg.err)
		return m, nil
	}

	return m, nil
}

func (m *Model) openDocument(msg noteMsg) {
	doc := markdown.Parse(msg.data)
	m.err = nil

	path, err := m.vault.NotePath(msg.path)
	if err == nil {
		if err := m.opts.State.Update(m.vault.Name, msg.path, path); err != nil {
			m.opts.Logger.StateError("update", err)
		}
	}

	if msg.reload && msg.path == m.note.path {
		anchor := m.note.TopSource()
		m.note.SetDocument(msg.path, doc)
		if anchor >= 0 {
			m.note.ScrollToSource(anchor)
		}
		m.opts.Logger.NoteReloaded(msg.path, "changed on disk")
		m.status = "reloaded"
	} else {
		m.rememberPosition()
		m.note.SetDocument(msg.path, doc)
		m.note.SetOffset(m.opts.State.Position(m.vault.Name, msg.path))
		m.opts.Logger.NoteOpened(msg.path, len(msg.data), len(doc.Nodes))
		m.status = ""
	}
	m.outline.SetDocument(doc)
}

func (m *Model) rememberPosition() {
	if m.note.Loaded() && m.vault.Name != "" {
		m.opts.State.Remember(m.vault.Name, m.note.path, m.note.Offset())
	}
}

func (m Model) handleFileEvent(ev vault.Event) (tea.Model, tea.Cmd) {
	if m.vault.Path == "" {
		return m, nil
	}
	cmds := []tea.Cmd{}
	if ev.Kind != vault.Updated {
		cmds = append(cmds, loadNotes(m.vault))
	}

	if ev.Path == m.note.path {
		switch ev.Kind {
		case vault.Deleted:
			m.opts.State.Forget(m.vault.Name, ev.Path)
			m.note.Clear()
			m.outline.SetDocument(&markdown.Document{})
			if m.mode == modeOutline {
				m.mode = modeBrowse
			}
			m.focus = paneExplorer
			m.status = ev.Path + " was deleted"
		default:
			path, err := m.vault.NotePath(ev.Path)
			if err != nil {
				break
			}
			changed, err := m.opts.State.HasChanged(m.vault.Name, ev.Path, path)
			if err != nil {
				m.opts.Logger.WatchError(path, err)
				break
			}
			if changed {
				cmds = append(cmds, loadNote(m.vault, ev.Path, true))
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.rememberPosition()
		if m.cancelWatch != nil {
			m.cancelWatch()
		}
		return m, tea.Quit
	}

	switch m.mode {
	case modeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.mode = modeBrowse
		}
		return m, nil

	case modeVaults:
		return m.handleVaultsKey(msg)

	case modeOutline:
		return m.handleOutlineKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.Vaults):
		m.mode = modeVaults
		return m, nil

	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneExplorer && m.note.Loaded() {
			m.focus = paneNote
		} else {
			m.focus = paneExplorer
		}
		return m, nil

	case key.Matches(msg, m.keys.Outline):
		if m.note.Loaded() && m.outline.Len() > 0 {
			m.outline.SelectAt(m.note.TopSource())
			m.mode = modeOutline
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		cmds := []tea.Cmd{loadNotes(m.vault)}
		if m.note.Loaded() {
			cmds = append(cmds, loadNote(m.vault, m.note.path, true))
		}
		return m, tea.Batch(cmds...)
	}

	if m.focus == paneNote {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.note.ScrollBy(-1)
		case key.Matches(msg, m.keys.Down):
			m.note.ScrollBy(1)
		case key.Matches(msg, m.keys.PageUp):
			m.note.PageUp()
		case key.Matches(msg, m.keys.PageDown):
			m.note.PageDown()
		case key.Matches(msg, m.keys.Top):
			m.note.Top()
		case key.Matches(msg, m.keys.Bottom):
			m.note.Bottom()
		case key.Matches(msg, m.keys.Back):
			m.focus = paneExplorer
		}
		return m, nil
	}

	if moveTable(&m.explorer.table, m.keys, msg) {
		return m, nil
	}
	if key.Matches(msg, m.keys.Open) {
		if path := m.explorer.Selected(); path != "" {
			m.focus = paneNote
			if path != m.note.path {
				return m, loadNote(m.vault, path, false)
			}
		}
	}
	return m, nil
}

func (m Model) handleOutlineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case moveTable(&m.outline.table, m.keys, msg):
	case key.Matches(msg, m.keys.Open):
		if entry, ok := m.outline.Selected(); ok {
			m.note.ScrollToSource(entry.Range.Start)
		}
		m.mode = modeBrowse
		m.focus = paneNote
	case key.Matches(msg, m.keys.Back, m.keys.Outline):
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) handleVaultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case moveTable(&m.vaults.table, m.keys, msg):
	case key.Matches(msg, m.keys.Open):
		v, ok := m.vaults.Selected()
		if !ok {
			return m, nil
		}
		m.mode = modeBrowse
		if v.Path == m.vault.Path {
			return m, nil
		}
		return m, m.openVault(v)
	case key.Matches(msg, m.keys.Back, m.keys.Vaults):
		if m.vault.Path != "" {
			m.mode = modeBrowse
		}
	}
	return m, nil
}

// openVault switches to v, restarting the watcher there
func (m *Model) openVault(v vault.Vault) tea.Cmd {
	m.rememberPosition()
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	m.vault = v
	m.err = nil
	m.status = ""
	m.focus = paneExplorer
	m.note.Clear()
	m.explorer.SetNotes(nil)
	m.outline.SetDocument(&markdown.Document{})
	m.watchCtx, m.cancelWatch = context.WithCancel(context.Background())
	return tea.Batch(loadNotes(v), m.watch(m.watchCtx, v))
}

// moveTable applies the navigation bindings to t
func moveTable(t *table.Model, keys keyMap, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.Up):
		t.MoveUp(1)
	case key.Matches(msg, keys.Down):
		t.MoveDown(1)
	case key.Matches(msg, keys.PageUp):
		t.MoveUp(max(t.Height(), 1))
	case key.Matches(msg, keys.PageDown):
		t.MoveDown(max(t.Height(), 1))
	case key.Matches(msg, keys.Top):
		t.GotoTop()
	case key.Matches(msg, keys.Bottom):
		t.GotoBottom()
	default:
		return false
	}
	return true
}

// Layout: a title row, the panes, a status row and a help row
const chromeRows = 3

func (m *Model) explorerWidth() int {
	return min(max(m.width/3, 24), 48)
}

func (m *Model) resize() {
	bodyHeight := max(m.height-chromeRows, 3)
	inner := max(bodyHeight-2, 1)

	left := m.explorerWidth()
	m.explorer.SetSize(left-2, inner)
	m.outline.SetSize(left-2, inner)
	m.note.SetSize(max(m.width-left-2, 1), inner)
	m.vaults.SetSize(max(m.width-2, 1), inner)
	m.help.Width = m.width
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("vaultview")
	if m.vault.Name != "" {
		title += " " + labelStyle.Render(m.vault.Name)
	}
	if m.note.Loaded() && m.note.title != "" {
		title += " › " + valueStyle.Render(m.note.title)
		if len(m.note.aliases) > 0 {
			title += " " + labelStyle.Render("("+strings.Join(m.note.aliases, ", ")+")")
		}
	}
	b.WriteString(title)
	b.WriteString("\n")

	bodyHeight := max(m.height-chromeRows, 3)
	inner := max(bodyHeight-2, 1)

	switch m.mode {
	case modeVaults:
		b.WriteString(activePaneStyle.Width(max(m.width-2, 1)).Height(inner).Render(m.vaults.table.View()))
	case modeHelp:
		full := m.help
		full.ShowAll = true
		b.WriteString(activePaneStyle.Width(max(m.width-2, 1)).Height(inner).Render(full.View(m.keys)))
	default:
		left := m.explorerWidth()
		leftStyle, rightStyle := paneStyle, paneStyle
		var leftView string
		if m.mode == modeOutline {
			leftStyle = activePaneStyle
			leftView = m.outline.table.View()
		} else {
			if m.focus == paneExplorer {
				leftStyle = activePaneStyle
			} else {
				rightStyle = activePaneStyle
			}
			leftView = m.explorer.table.View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			leftStyle.Width(left-2).Height(inner).Render(leftView),
			rightStyle.Width(max(m.width-left-2, 1)).Height(inner).Render(m.note.View()),
		))
	}
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) statusLine() string {
	var left string
	switch {
	case m.err != nil:
		left = errorStyle.Render("✗ Error: " + m.err.Error())
	case m.note.Loaded():
		left = valueStyle.Render(m.note.path) + " " +
			labelStyle.Render(fmt.Sprintf("• %d words • %d chars", m.note.words, m.note.chars))
		if tags := tagList(m.note.tags); tags != "" {
			left += " " + labelStyle.Render("• "+tags)
		}
		if m.status != "" {
			left += " " + highlightStyle.Render(m.status)
		}
	default:
		left = labelStyle.Render(m.status)
	}

	var right string
	if m.note.Loaded() {
		if h := m.note.Height(); h > 0 {
			right = labelStyle.Render(fmt.Sprintf("%d/%d", min(m.note.Offset()+1, h), h))
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// tagList formats front matter tags Obsidian-style, "#a #b"
func tagList(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimPrefix(strings.TrimSpace(t), "#"); t != "" {
			out = append(out, "#"+t)
		}
	}
	return strings.Join(out, " ")
}
