package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/gerunddev/vaultview/internal/styles"
)

var (
	titleStyle     = styles.TitleStyle
	labelStyle     = styles.DimStyle
	valueStyle     = styles.ValueStyle
	helpStyle      = styles.DimStyle
	errorStyle     = styles.ErrorStyle
	highlightStyle = styles.HighlightStyle

	paneStyle       = styles.PaneStyle
	activePaneStyle = styles.ActivePaneStyle
)

// newTable builds a table with the palette's header and selection styles
func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.Inherit(styles.HeaderStyle)
	ts.Selected = styles.SelectedStyle
	t.SetStyles(ts)

	return t
}

// setTableHeight sizes t to height rows in total. bubbles takes the header
// out of that, so keep room for at least one row
func setTableHeight(t *table.Model, height int) {
	t.SetHeight(max(height, 3))
}
