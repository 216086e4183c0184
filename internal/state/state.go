package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// NoteState is what is remembered about a single note
type NoteState struct {
	Scroll int    `json:"scroll"`
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
}

// VaultState is the browsing position within a vault
type VaultState struct {
	LastNote string                `json:"last_note,omitempty"`
	Notes    map[string]*NoteState `json:"notes"` // vault-relative path -> state
}

// State represents the persisted browsing state
type State struct {
	LastVault string                 `json:"last_vault,omitempty"`
	Vaults    map[string]*VaultState `json:"vaults"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Vaults: make(map[string]*VaultState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.Vaults == nil {
		state.Vaults = make(map[string]*VaultState)
	}
	for _, v := range state.Vaults {
		if v.Notes == nil {
			v.Notes = make(map[string]*NoteState)
		}
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Vault returns the state of the named vault, creating it if needed
func (s *State) Vault(name string) *VaultState {
	v, ok := s.Vaults[name]
	if !ok {
		v = &VaultState{Notes: make(map[string]*NoteState)}
		s.Vaults[name] = v
	}
	return v
}

// Remember records the note being read and its scroll offset
func (s *State) Remember(vault, note string, scroll int) {
	s.LastVault = vault
	v := s.Vault(vault)
	v.LastNote = note
	n, ok := v.Notes[note]
	if !ok {
		n = &NoteState{}
		v.Notes[note] = n
	}
	n.Scroll = max(scroll, 0)
}

// Position returns the remembered scroll offset of a note
func (s *State) Position(vault, note string) int {
	if v, ok := s.Vaults[vault]; ok {
		if n, ok := v.Notes[note]; ok {
			return n.Scroll
		}
	}
	return 0
}

// LastNote returns the note last read in a vault
func (s *State) LastNote(vault string) string {
	if v, ok := s.Vaults[vault]; ok {
		return v.LastNote
	}
	return ""
}

// Forget drops everything remembered about a note
func (s *State) Forget(vault, note string) {
	v, ok := s.Vaults[vault]
	if !ok {
		return
	}
	delete(v.Notes, note)
	if v.LastNote == note {
		v.LastNote = ""
	}
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a note's file has changed since it was last seen
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(vault, note, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().UnixNano()

	v, ok := s.Vaults[vault]
	if !ok {
		return true, nil
	}
	noteState, exists := v.Notes[note]
	if !exists || noteState.Hash == "" {
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == noteState.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != noteState.Hash, nil
}

// Update records the current mtime and hash of a note's file
func (s *State) Update(vault, note, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	v := s.Vault(vault)
	n, ok := v.Notes[note]
	if !ok {
		n = &NoteState{}
		v.Notes[note] = n
	}
	n.MTime = info.ModTime().UnixNano()
	n.Hash = hash

	return nil
}
