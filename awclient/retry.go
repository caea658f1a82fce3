package awclient

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ctolnik/aw-watcher-window/zapctx"
)

// BucketProvisioner is the part of the client WaitForBucket needs.
type BucketProvisioner interface {
	EnsureBucket(ctx context.Context, bucketID, bucketType string) error
}

// WaitForBucket blocks until the bucket exists, retrying on a fixed backoff
// for as long as it takes. This is the startup availability gate: polling
// must not begin against a server that cannot take heartbeats yet. It
// returns early only when ctx ends.
func WaitForBucket(ctx context.Context, c BucketProvisioner, bucketID, bucketType string, backoff time.Duration) error {
	for {
		err := c.EnsureBucket(ctx, bucketID, bucketType)
		if err == nil {
			zapctx.Info(ctx, "Bucket ready", zap.String("bucket", bucketID))
			return nil
		}
		zapctx.Warn(ctx, "Failed to create bucket, retrying",
			zap.String("bucket", bucketID),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
