package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gerunddev/vaultview/internal/logger"
)

// EventKind describes what happened to a note
type EventKind string

const (
	Created EventKind = "created"
	Updated EventKind = "updated"
	Deleted EventKind = "deleted"
)

// Event is a change to a note on disk
type Event struct {
	Kind EventKind
	// Path is relative to the vault root, slash separated
	Path string
}

// Debounce is how long the watcher waits for a burst of writes to a note
// to settle before reporting it
var Debounce = 150 * time.Millisecond

// Watcher reports note changes under a vault root
type Watcher struct {
	root string
	fs   *fsnotify.Watcher
	log  *logger.Logger
}

// NewWatcher starts watching root and every directory below it. Hidden
// directories are not watched
func NewWatcher(root string, log *logger.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addDirsRecursive(w, root); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{root: root, fs: w, log: log}, nil
}

// Run processes file system events until ctx is cancelled, calling cb
// once per settled note change. It closes the watcher on return
func (w *Watcher) Run(ctx context.Context, cb func(Event)) error {
	defer w.fs.Close()

	pending := make(map[string]EventKind)
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			cb(Event{Kind: pending[p], Path: p})
		}
		clear(pending)
	}

	w.log.Debug("watcher started", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.log.Debug("watcher stopped", "root", w.root)
			return nil

		case <-timerCh:
			flush()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if hidden(filepath.Base(ev.Name)) {
						continue
					}
					if err := addDirsRecursive(w.fs, ev.Name); err != nil {
						w.log.WatchError(ev.Name, err)
					}
					w.addNotesIn(ev.Name, pending)
					schedule()
					continue
				}
			}

			if !IsNote(ev.Name) {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			var kind EventKind
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = Created
			case ev.Op&fsnotify.Write != 0:
				kind = Updated
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path; the new one arrives as Create
				kind = Deleted
			default:
				continue
			}
			pending[rel] = merge(pending[rel], kind)
			schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.WatchError(w.root, err)
		}
	}
}

// merge folds a new event into one already pending for the same note
func merge(prev, next EventKind) EventKind {
	switch {
	case prev == "":
		return next
	case prev == Created && next == Updated:
		return Created
	case prev == Deleted && next != Deleted:
		return Updated
	default:
		return next
	}
}

// addNotesIn queues the notes of a directory that appeared after the
// watch started
func (w *Watcher) addNotesIn(dir string, pending map[string]EventKind) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsNote(path) {
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil {
			pending[filepath.ToSlash(rel)] = Created
		}
		return nil
	})
}

// addDirsRecursive adds root and all its visible subdirectories to the watcher
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
