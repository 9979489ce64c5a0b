// Package watch reports changes to a single file.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temp file and renaming it over the
// original keep triggering events.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatch is returned when the file cannot be watched.
var ErrWatch = errors.New("failed to watch file")

// Watcher calls a function after a file changes, once per burst of events.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher

	// OnError receives non-fatal watcher errors. Nil discards them.
	OnError func(error)
}

// New starts watching path. Events are only delivered once Run is called.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrWatch, filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, fsw: fsw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx ends, calling onChange after each burst of writes to
// the file settles for the debounce period. onChange runs on the calling
// goroutine; events arriving meanwhile are coalesced into the next call.
// Run returns nil when ctx ends and an error if the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("%w: event stream closed", ErrWatch)
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("%w: error stream closed", ErrWatch)
			}
			if w.OnError != nil {
				w.OnError(err)
			}

		case <-timer.C:
			onChange(ctx)
		}
	}
}

// relevant reports whether event changes the watched file's content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
