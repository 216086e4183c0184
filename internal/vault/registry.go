// Package vault finds Obsidian vaults and the notes inside them
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/adrg/xdg"
)

// ErrNotFound is returned when no registered vault matches a name
var ErrNotFound = errors.New("vault not found")

// Vault is a directory of notes
type Vault struct {
	ID         string
	Name       string
	Path       string
	Open       bool
	LastOpened time.Time
}

// RegistryDir returns the directory holding Obsidian's obsidian.json
// Can be overridden for testing
var RegistryDir = func() string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(xdg.ConfigHome, "obsidian")
	}
	return filepath.Join(xdg.ConfigHome, "Obsidian")
}

type registryFile struct {
	Vaults map[string]struct {
		Path string `json:"path"`
		TS   int64  `json:"ts"`
		Open bool   `json:"open"`
	} `json:"vaults"`
}

// LoadRegistry reads the vaults Obsidian knows about from dir, or from
// RegistryDir when dir is empty. A missing registry yields no vaults
func LoadRegistry(dir string) ([]Vault, error) {
	if dir == "" {
		dir = RegistryDir()
	}
	data, err := os.ReadFile(filepath.Join(dir, "obsidian.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var raw registryFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse obsidian.json: %w", err)
	}

	vaults := make([]Vault, 0, len(raw.Vaults))
	for id, v := range raw.Vaults {
		if v.Path == "" {
			continue
		}
		vault := Vault{
			ID:   id,
			Name: filepath.Base(v.Path),
			Path: v.Path,
			Open: v.Open,
		}
		if v.TS > 0 {
			vault.LastOpened = time.UnixMilli(v.TS)
		}
		vaults = append(vaults, vault)
	}
	sort.Slice(vaults, func(i, j int) bool {
		if vaults[i].Name != vaults[j].Name {
			return vaults[i].Name < vaults[j].Name
		}
		return vaults[i].ID < vaults[j].ID
	})
	return vaults, nil
}

// Find returns the vault whose name or ID is name
func Find(vaults []Vault, name string) (Vault, error) {
	for _, v := range vaults {
		if v.Name == name || v.ID == name {
			return v, nil
		}
	}
	return Vault{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve picks the vault to browse. name may be a registered vault or a
// directory. With no name, the open vault wins, then the most recently
// opened one
func Resolve(vaults []Vault, name string) (Vault, error) {
	if name != "" {
		if v, err := Find(vaults, name); err == nil {
			return v, nil
		}
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			abs, err := filepath.Abs(name)
			if err != nil {
				return Vault{}, err
			}
			return Vault{Name: filepath.Base(abs), Path: abs}, nil
		}
		return Vault{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if len(vaults) == 0 {
		return Vault{}, ErrNotFound
	}
	best := vaults[0]
	for _, v := range vaults[1:] {
		switch {
		case v.Open && !best.Open:
			best = v
		case v.Open == best.Open && v.LastOpened.After(best.LastOpened):
			best = v
		}
	}
	return best, nil
}
