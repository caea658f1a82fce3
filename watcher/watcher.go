// Package watcher samples the focused window at a fixed interval, applies
// title redaction rules and reports the activity as heartbeats.
package watcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ctolnik/aw-watcher-window/zapctx"
)

// Source reports the currently focused window. A nil window with a nil
// error means nothing has focus right now, which is not a failure.
type Source interface {
	ActiveWindow() (*Window, error)
}

// MergeWindow returns the merge window ("pulsetime") to request from the
// backend for a given poll interval. It strictly exceeds the interval so
// two consecutive keep-alives for the same activity always merge into one
// interval, even when a tick is slightly delayed.
func MergeWindow(pollInterval time.Duration) time.Duration {
	return pollInterval + time.Second
}

// Watcher is the polling shell around the merger: sleep, sample, normalize,
// observe. Exactly one goroutine runs it, so samples reach the merger in
// strict temporal order and no tick overlaps another.
type Watcher struct {
	source   Source
	merger   *Merger
	rules    RuleSet
	interval time.Duration
	now      func() time.Time
}

func New(source Source, sender Sender, rules RuleSet, interval time.Duration) *Watcher {
	return &Watcher{
		source:   source,
		merger:   NewMerger(sender),
		rules:    rules,
		interval: interval,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled. Each tick fully completes, including
// backend I/O, before the next sleep begins.
func (w *Watcher) Run(ctx context.Context) error {
	zapctx.Info(ctx, "Watcher started", zap.Duration("poll_interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zapctx.Info(ctx, "Watcher stopped")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick samples once. Platform failures and the no-focus case abandon the
// tick without touching merger state; the full interval still elapses
// before the next attempt.
func (w *Watcher) tick(ctx context.Context) {
	win, err := w.source.ActiveWindow()
	if err != nil {
		zapctx.Warn(ctx, "Failed to query focused window", zap.Error(err))
		return
	}
	if win == nil {
		zapctx.Debug(ctx, "No window has focus")
		return
	}

	sample := Normalize(win.App, win.Title, w.rules)
	w.merger.Observe(ctx, sample, w.now())
}
