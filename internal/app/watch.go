// Package app provides the application theme and live reload of data files.
package app

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches one data file and invokes a callback after it has been
// written to and then stayed quiet for the debounce interval. Acquisition
// software appends to sweep files while a measurement runs, so bursts of
// writes collapse into a single reload.
type FileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	onChange func() // Called from the watch goroutine
}

// NewFileWatcher creates a watcher for path. The parent directory is watched
// so files replaced by rename are still seen.
func NewFileWatcher(path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &FileWatcher{
		path:     filepath.Clean(abs),
		debounce: debounce,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnChange sets the callback to invoke when the file changes.
// The callback runs on the watcher goroutine.
func (fw *FileWatcher) OnChange(callback func()) {
	fw.onChange = callback
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Start begins watching in a background goroutine.
func (fw *FileWatcher) Start() {
	go fw.watchLoop()
}

// Stop stops the watcher. Safe to call more than once.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopCh)
		fw.watcher.Close()
	})
}

// Done is closed when the watch goroutine has exited.
func (fw *FileWatcher) Done() <-chan struct{} {
	return fw.doneCh
}

func (fw *FileWatcher) watchLoop() {
	defer close(fw.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-fw.stopCh:
			return

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(fw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if fw.onChange != nil {
				fw.onChange()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %s: %v", filepath.Base(fw.path), err)
		}
	}
}
