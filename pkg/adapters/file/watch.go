package file

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/advisor/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// ErrNotWatchable is returned by Watch on loaders not backed by a directory.
var ErrNotWatchable = errors.New("loader is not backed by a directory")

// DebounceDelay coalesces bursts of writes from editors and copy tools.
var DebounceDelay = 200 * time.Millisecond

// Watch implements ports.Watchable. Each change to a brand's dataset files
// drops its cache and emits the brand name once the debounce settles.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	if l.dir == "" {
		return nil, ErrNotWatchable
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(l.dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}

	ch := make(chan string, 1)
	go l.watchLoop(ctx, w, ch)
	return ch, nil
}

func (l *Loader) watchLoop(ctx context.Context, w *fsnotify.Watcher, ch chan<- string) {
	defer close(ch)
	defer w.Close()

	pending := make(map[domain.Brand]bool)
	timer := time.NewTimer(DebounceDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			brand, _, ok := parseDatasetName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			l.logger.Debug("dataset changed", "file", event.Name, "op", event.Op.String())
			pending[brand] = true
			timer.Reset(DebounceDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			l.logger.Warn("dataset watcher error", "err", err)

		case <-timer.C:
			for brand := range pending {
				l.Invalidate(brand)
				select {
				case ch <- string(brand):
				case <-ctx.Done():
					return
				}
			}
			pending = make(map[domain.Brand]bool)
		}
	}
}
