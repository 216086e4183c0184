package vault

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListNotes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.md":                    "# B",
		"a.md":                    "# A",
		"daily/2024-01-01.md":     "today",
		"daily/image.png":         "png",
		"Upper.MD":                "upper",
		".obsidian/workspace.md":  "config",
		".trash/deleted.md":       "gone",
		"projects/.draft.md":      "hidden",
		"projects/deep/nested.md": "deep",
	})

	notes, err := ListNotes(root)
	if err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	var paths []string
	for _, n := range notes {
		paths = append(paths, n.Path)
	}
	want := []string{"Upper.MD", "a.md", "b.md", "daily/2024-01-01.md", "projects/deep/nested.md"}
	if !slices.Equal(paths, want) {
		t.Errorf("ListNotes() = %v, want %v", paths, want)
	}
	if notes[1].Size != 3 {
		t.Errorf("a.md size = %d, want 3", notes[1].Size)
	}
}

func TestNoteNameAndDir(t *testing.T) {
	tests := []struct {
		path, name, dir string
	}{
		{"a.md", "a", ""},
		{"daily/2024-01-01.md", "2024-01-01", "daily"},
		{"x/y/z.MD", "z", "x/y"},
	}
	for _, tt := range tests {
		n := Note{Path: tt.path}
		if n.Name() != tt.name || n.Dir() != tt.dir {
			t.Errorf("Note(%q) name=%q dir=%q, want %q %q", tt.path, n.Name(), n.Dir(), tt.name, tt.dir)
		}
	}
}

func TestReadNote(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"sub/n.md": "hello"})
	v := Vault{Name: "v", Path: root}

	data, err := v.ReadNote("sub/n.md")
	if err != nil {
		t.Fatalf("ReadNote() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadNote() = %q", data)
	}

	for _, bad := range []string{"../escape.md", "/etc/passwd"} {
		if _, err := v.ReadNote(bad); err == nil {
			t.Errorf("ReadNote(%q) should fail", bad)
		}
	}
}
