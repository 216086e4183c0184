package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Note is a markdown file inside a vault
type Note struct {
	// Path is relative to the vault root, slash separated
	Path    string
	Size    int64
	ModTime time.Time
}

// Name returns the note's title as Obsidian shows it: the file name
// without its extension
func (n Note) Name() string {
	base := filepath.Base(filepath.FromSlash(n.Path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dir returns the folder containing the note, or "" at the vault root
func (n Note) Dir() string {
	dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(n.Path)))
	if dir == "." {
		return ""
	}
	return dir
}

// IsNote reports whether path names a markdown note
func IsNote(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// hidden reports whether a vault entry should be skipped, such as
// .obsidian, .trash and .git
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// ListNotes returns every note under root, sorted by path
func ListNotes(root string) ([]Note, error) {
	var notes []Note
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsNote(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		notes = append(notes, Note{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Path < notes[j].Path })
	return notes, nil
}

// NotePath returns the file path of a vault-relative note path. It
// rejects paths that leave the vault
func (v Vault) NotePath(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("note path %q is outside the vault", rel)
	}
	return filepath.Join(v.Path, local), nil
}

// ReadNote returns the contents of a vault-relative note
func (v Vault) ReadNote(rel string) ([]byte, error) {
	path, err := v.NotePath(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Notes lists the vault's notes
func (v Vault) Notes() ([]Note, error) {
	return ListNotes(v.Path)
}
