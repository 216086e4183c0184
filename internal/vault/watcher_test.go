package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gerunddev/vaultview/internal/logger"
)

func startWatcher(t *testing.T, root string) <-chan Event {
	t.Helper()
	original := Debounce
	Debounce = 20 * time.Millisecond
	t.Cleanup(func() { Debounce = original })

	w, err := NewWatcher(root, logger.Discard())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func(ev Event) { events <- ev })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return events
}

func waitFor(t *testing.T, events <-chan Event, want Event) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %+v", want)
		}
	}
}

func TestWatcherReportsNoteChanges(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"existing.md": "v1"})
	events := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "existing.md"), []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, Event{Kind: Updated, Path: "existing.md"})

	if err := os.WriteFile(filepath.Join(root, "new.md"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, Event{Kind: Created, Path: "new.md"})

	if err := os.Remove(filepath.Join(root, "existing.md")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, Event{Kind: Deleted, Path: "existing.md"})
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	dir := filepath.Join(root, "daily")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to add the new directory
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "today.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, Event{Kind: Created, Path: "daily/today.md"})
}

func TestMerge(t *testing.T) {
	tests := []struct {
		prev, next, want EventKind
	}{
		{"", Updated, Updated},
		{Created, Updated, Created},
		{Updated, Deleted, Deleted},
		{Deleted, Created, Updated},
		{Updated, Updated, Updated},
	}
	for _, tt := range tests {
		if got := merge(tt.prev, tt.next); got != tt.want {
			t.Errorf("merge(%q, %q) = %q, want %q", tt.prev, tt.next, got, tt.want)
		}
	}
}
