package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/everse/unified-api/pkg/logging"
)

// watchedFiles are the cache files whose change should trigger a
// regeneration. The relationships snapshot is deliberately excluded: the
// pipeline writes it itself and watching it would loop forever.
var watchedFiles = map[string]bool{
	"indicators.json": true,
	"tools.json":      true,
	"dimensions.json": true,
}

// ChangeEvent is a batch of changed cache files.
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// CacheWatcher watches the cache directory for refreshed source collections.
type CacheWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan ChangeEvent
}

// NewCacheWatcher creates a watcher for the given cache directory.
func NewCacheWatcher(dir string) (*CacheWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &CacheWatcher{
		watcher: fsw,
		dir:     dir,
		events:  make(chan ChangeEvent, 16),
	}, nil
}

// Start begins watching. Events are batched over a short window before being
// sent, so one refresh touching several files yields one event.
func (w *CacheWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logging.Info("watching cache directory", "path", w.dir)

	go w.processEvents(ctx)
	return nil
}

func (w *CacheWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(time.Hour)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.events <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			w.watcher.Close()
			close(w.events)
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !watchedFiles[filepath.Base(event.Name)] {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of batched change events.
func (w *CacheWatcher) Events() <-chan ChangeEvent {
	return w.events
}

// Stop stops the watcher.
func (w *CacheWatcher) Stop() error {
	return w.watcher.Close()
}
