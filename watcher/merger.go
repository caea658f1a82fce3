package watcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ctolnik/aw-watcher-window/zapctx"
)

// Sender delivers a single zero-duration heartbeat to the backend.
// Implementations must not retry internally.
type Sender interface {
	Send(ctx context.Context, sample Sample, ts time.Time) error
}

// Merger decides, for each observed sample, whether the current activity is
// continuing or a window switch happened, and emits the heartbeats the
// backend needs to assemble correct intervals. It owns the only piece of
// process-lifetime state: the previously observed sample.
type Merger struct {
	sender Sender
	prev   *Sample
}

func NewMerger(sender Sender) *Merger {
	return &Merger{sender: sender}
}

// Observe feeds one sample taken at now into the state machine.
//
// Same sample as last tick: one keep-alive heartbeat at now. Different
// sample: the previous activity is closed at now-1ms so its interval can
// never overlap the new one, then the new activity is opened at now. The
// very first sample opens without closing anything.
//
// Sends are independent: a failed close does not suppress the open, and the
// tracked sample advances whether or not the backend accepted anything.
// Losing a heartbeat is recoverable; corrupting the previous-sample state
// is not.
func (m *Merger) Observe(ctx context.Context, s Sample, now time.Time) {
	if m.prev != nil && *m.prev != s {
		m.send(ctx, *m.prev, now.Add(-time.Millisecond))
	}
	m.send(ctx, s, now)
	m.prev = &s
}

func (m *Merger) send(ctx context.Context, s Sample, ts time.Time) {
	if err := m.sender.Send(ctx, s, ts); err != nil {
		zapctx.Error(ctx, "Failed to send heartbeat",
			zap.String("app", s.App),
			zap.Time("timestamp", ts),
			zap.Error(err))
		return
	}
	zapctx.Debug(ctx, "Heartbeat sent",
		zap.String("app", s.App),
		zap.String("title", s.Title),
		zap.Time("timestamp", ts))
}
