// -------------------- fswatch/fswatch.go --------------------

// watches single files (the jwt secret) and reports rewrites
package fswatch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultThrottle spaces out reactions to bursts of writes.
const DefaultThrottle = 250 * time.Millisecond

// WatchFile calls onChange after path is written, created or renamed over.
// It watches the parent directory so editors that replace the file are seen.
// It returns when ctx is done.
func WatchFile(ctx context.Context, path string, throttleEvery time.Duration, logger *zap.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	if throttleEvery <= 0 {
		throttleEvery = DefaultThrottle
	}
	logger.Info("watching file", zap.String("path", abs))

	throttle := time.NewTicker(throttleEvery)
	defer throttle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case <-throttle.C:
			case <-ctx.Done():
				return nil
			}
			drain(watcher.Events, abs)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// drain discards events for path already queued behind the one handled.
func drain(events <-chan fsnotify.Event, path string) {
	for {
		select {
		case ev, ok := <-events:
			if !ok || filepath.Clean(ev.Name) != path {
				return
			}
		default:
			return
		}
	}
}
