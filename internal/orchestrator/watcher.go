package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"organizer/internal/logging"
)

// Start performs the startup run, then blocks on the watcher and the
// periodic ticker until ctx is canceled. Watcher failures degrade to
// timer-only operation.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.TryRun(ctx, "startup")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		o.logger.Error("watcher unavailable, running on timer only", logging.Error(err))
		return o.tick(ctx, nil)
	}
	defer watcher.Close()

	if err := watcher.Add(o.sourceDir); err != nil {
		o.logger.Error("watch source directory failed, running on timer only",
			logging.String("dir", o.sourceDir),
			logging.Error(err))
		return o.tick(ctx, nil)
	}
	o.logger.Info("watching source directory", logging.String("dir", o.sourceDir))
	return o.tick(ctx, watcher)
}

// tick multiplexes watcher events and the periodic timer. Each accepted
// trigger runs in its own goroutine so the event loop never blocks on a
// long run; the run lock serializes the actual work.
func (o *Orchestrator) tick(ctx context.Context, watcher *fsnotify.Watcher) error {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	events := make(<-chan fsnotify.Event)
	errs := make(<-chan error)
	if watcher != nil {
		events = watcher.Events
		errs = watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			go o.TryRun(ctx, "scheduled scan")
		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher event stream closed")
			}
			o.handleEvent(ctx, event)
		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher error stream closed")
			}
			o.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

func (o *Orchestrator) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if !o.acceptTrigger(time.Now()) {
		o.logger.Debug("trigger suppressed by debounce",
			logging.String("path", event.Name))
		return
	}
	o.logger.Info("new source entry detected",
		logging.String("path", event.Name))
	go o.TryRun(ctx, "new folder")
}
