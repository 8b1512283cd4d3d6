// Package monitor turns file system notifications into one-shot change
// signals. Callers register interest in a directory under a key and are
// called back the next time anything inside it is created, written, renamed
// or removed. Registering the same key on the same directory again replaces
// the pending callback, so repeated scans do not pile up handlers.
package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/fsnotify/fsnotify"
)

// Watcher dispatches fsnotify events to registered callbacks.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	watched  map[string]struct{}
	handlers map[string]map[string]func() // dir -> key -> callback
	done     chan struct{}
	closed   bool
}

// New starts a watcher. Its event loop runs until Close is called or ctx
// is cancelled.
func New(ctx context.Context) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		watched:  make(map[string]struct{}),
		handlers: make(map[string]map[string]func()),
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Watch registers onChange under key for the next change inside dir. A
// callback already pending under the same key for dir is replaced.
func (w *Watcher) Watch(dir, key string, onChange func()) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("monitor: watcher is closed")
	}
	if _, ok := w.watched[dir]; !ok {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.watched[dir] = struct{}{}
	}
	if w.handlers[dir] == nil {
		w.handlers[dir] = make(map[string]func())
	}
	w.handlers[dir][key] = onChange
	return nil
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	logger := ctxlog.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			logger.Debug("File change detected.", "path", event.Name, "op", event.Op.String())
			w.fire(filepath.Dir(event.Name))
			w.fire(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

func (w *Watcher) fire(dir string) {
	w.mu.Lock()
	handlers := w.handlers[dir]
	delete(w.handlers, dir)
	w.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// pending returns the number of callbacks waiting on dir.
func (w *Watcher) pending(dir string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.handlers[filepath.Clean(dir)])
}
