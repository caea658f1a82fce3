package awclient

import (
	"context"
	"time"

	"github.com/ctolnik/aw-watcher-window/watcher"
)

// HeartbeatSender adapts Client to the watcher's Sender contract for a
// fixed bucket and merge window.
type HeartbeatSender struct {
	Client      *Client
	BucketID    string
	MergeWindow time.Duration
}

func (s *HeartbeatSender) Send(ctx context.Context, sample watcher.Sample, ts time.Time) error {
	event := Event{
		Timestamp: ts,
		Data: EventData{
			App:   sample.App,
			Title: sample.Title,
		},
	}
	return s.Client.Heartbeat(ctx, s.BucketID, event, s.MergeWindow)
}
