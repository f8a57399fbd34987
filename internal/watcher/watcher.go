// Package watcher watches demo project files and reports real content
// changes. Editors and build tools fire write events for untouched
// files constantly; a content hash per path suppresses the noise.
package watcher

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeFunc receives the path of a file whose content actually changed.
type ChangeFunc func(path string)

// Watcher wraps fsnotify with recursive directory registration, a
// debounce window, and hash-based change suppression.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	onChange ChangeFunc
	log      *zap.Logger

	mu      sync.Mutex
	hashes  map[string][32]byte
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Watcher over root. Events settle for debounce before the
// callback fires.
func New(root string, debounce time.Duration, onChange ChangeFunc, log *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fs:       fs,
		root:     root,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		hashes:   make(map[string][32]byte),
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch registers root and its subdirectories and starts processing.
func (w *Watcher) Watch() error {
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if base := filepath.Base(path); base == ".git" || base == "node_modules" {
			return filepath.SkipDir
		}
		// Registration failures on individual dirs are non-fatal.
		_ = w.fs.Add(path)
		return nil
	})
	if err != nil {
		return err
	}

	go w.processEvents()
	go w.flushPending()
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fs.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Op&fsnotify.Create != 0 {
					_ = w.fs.Add(ev.Name)
				}
				continue
			}
			w.mu.Lock()
			w.pending[ev.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Debug("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) flushPending() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			var ready []string
			w.mu.Lock()
			for path, at := range w.pending {
				if now.Sub(at) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()
			for _, path := range ready {
				if w.contentChanged(path) {
					w.onChange(path)
				}
			}
		}
	}
}

// contentChanged hashes the file and reports whether the hash moved
// since the last emitted change for that path.
func (w *Watcher) contentChanged(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		// Deleted or unreadable between event and flush; drop it.
		return false
	}
	sum := sha256.Sum256(data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.hashes[path]; ok && prev == sum {
		return false
	}
	w.hashes[path] = sum
	return true
}
