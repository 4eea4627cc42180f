package server

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the gallery page and photo directories for changes and
// invokes a callback when modifications are detected. Rapid successive
// changes (a batch of photos landing at once) are debounced into a single
// callback invocation.
type Watcher struct {
	paths    []string
	onChange func()
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
	once     sync.Once
}

// NewWatcher creates a Watcher over the given paths. The onChange callback
// fires after events have settled for the debounce duration.
func NewWatcher(paths []string, debounce time.Duration, onChange func()) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
	}
}

// Start begins watching. It blocks until Stop is called or a fatal error
// occurs.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fsw

	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			// The output directory may not exist before the first publish.
			continue
		}
		if info.IsDir() {
			if err := w.addRecursive(p); err != nil {
				log.Printf("warning: failed to watch %s: %v", p, err)
			}
		} else {
			if err := fsw.Add(p); err != nil {
				log.Printf("warning: failed to watch %s: %v", p, err)
			}
		}
	}

	var timer *time.Timer
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return fsw.Close()
		}
	}
}

// Stop signals the watcher to stop monitoring files.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
	})
}

// addRecursive adds a directory and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}
