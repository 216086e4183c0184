package commands

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/vaultview/internal/config"
	"github.com/gerunddev/vaultview/internal/state"
	"github.com/gerunddev/vaultview/internal/tui"
	"github.com/gerunddev/vaultview/internal/vault"
)

// Browse runs the interactive browser on the named vault, the configured
// default, or the vault Obsidian has open
func Browse(args []string) {
	cfg := loadConfig()

	log, cleanup := openLogger(cfg)
	defer cleanup()
	log.ConfigLoaded(cfg.Vault, cfg.MaxWidth, cfg.LogLevel)

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		log.StateError("load", err)
		st = state.NewState()
	}

	vaults, err := vault.LoadRegistry(cfg.ObsidianConfigDir)
	if err != nil {
		fail("Error reading vault registry", err)
	}

	name := cfg.Vault
	if len(args) > 0 {
		name = args[0]
	} else if name == "" && st.LastVault != "" {
		if v, err := vault.Find(vaults, st.LastVault); err == nil {
			name = v.ID
		}
	}

	// An unknown vault falls back to the picker when there is anything to pick
	start, err := vault.Resolve(vaults, name)
	if err != nil {
		if len(vaults) == 0 {
			fail("Error opening vault", err)
		}
		start = vault.Vault{}
	}

	var p *tea.Program
	m := tui.New(tui.Options{
		Config: cfg,
		State:  st,
		Logger: log,
		Vaults: vaults,
		Vault:  start,
		Watch: func(ctx context.Context, v vault.Vault) error {
			w, err := vault.NewWatcher(v.Path, log)
			if err != nil {
				return err
			}
			return w.Run(ctx, func(ev vault.Event) {
				p.Send(tui.FileEventMsg{Event: ev})
			})
		},
	})
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(os.Stdin))

	_, runErr := p.Run()

	if err := st.Save(config.StateFilePath()); err != nil {
		log.StateError("save", err)
	}
	if runErr != nil {
		fail("Error", runErr)
	}
}
