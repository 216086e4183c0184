package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gerunddev/vaultview/internal/styles"
	"github.com/gerunddev/vaultview/internal/vault"
)

// Vaults lists the vaults registered with Obsidian
func Vaults() {
	cfg := loadConfig()
	vaults, err := vault.LoadRegistry(cfg.ObsidianConfigDir)
	if err != nil {
		fail("Error reading vault registry", err)
	}
	writeVaults(os.Stdout, vaults, cfg.Vault)
}

func writeVaults(w io.Writer, vaults []vault.Vault, def string) {
	if len(vaults) == 0 {
		fmt.Fprintln(w, styles.DimStyle.Render("No vaults registered"))
		return
	}
	for _, v := range vaults {
		marker := " "
		if v.Name == def || v.ID == def {
			marker = "*"
		}
		opened := "never"
		if !v.LastOpened.IsZero() {
			opened = v.LastOpened.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n",
			marker,
			styles.TitleStyle.Render(v.Name),
			v.Path,
			styles.DimStyle.Render(opened))
	}
}
