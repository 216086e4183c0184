package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/gerunddev/vaultview/internal/vault"
)

// vaultsModel picks a vault from the Obsidian registry
type vaultsModel struct {
	table  table.Model
	vaults []vault.Vault
}

func newVaultsModel(vaults []vault.Vault) vaultsModel {
	m := vaultsModel{table: newTable(vaultColumns(80), 10), vaults: vaults}
	rows := make([]table.Row, len(vaults))
	for i, v := range vaults {
		opened := "never"
		if !v.LastOpened.IsZero() {
			opened = v.LastOpened.Format("2006-01-02 15:04")
		}
		rows[i] = table.Row{v.Name, v.Path, opened}
	}
	m.table.SetRows(rows)
	return m
}

func vaultColumns(width int) []table.Column {
	inner := max(width-6, 30)
	name := inner / 4
	opened := 16
	return []table.Column{
		{Title: "Vault", Width: name},
		{Title: "Path", Width: max(inner-name-opened, 10)},
		{Title: "Last opened", Width: opened},
	}
}

func (v *vaultsModel) SetSize(width, height int) {
	v.table.SetColumns(vaultColumns(width))
	v.table.SetWidth(width)
	setTableHeight(&v.table, height)
}

// Select moves the cursor to the vault at path
func (v *vaultsModel) Select(path string) {
	for i, vault := range v.vaults {
		if vault.Path == path {
			v.table.SetCursor(i)
			return
		}
	}
}

// Selected returns the vault under the cursor
func (v *vaultsModel) Selected() (vault.Vault, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.vaults) {
		return vault.Vault{}, false
	}
	return v.vaults[i], true
}
