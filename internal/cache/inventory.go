package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	releaseKeyPrefix  = "release:%s"
	releaseListPrefix = "releases:%s:%d:%d"
)

const (
	ReleaseTTL     = 10 * time.Minute
	ReleaseListTTL = 1 * time.Minute
)

// ReleaseKey is the cache key for a single release detail.
func ReleaseKey(releaseID string) string {
	return fmt.Sprintf(releaseKeyPrefix, releaseID)
}

// ReleaseListKey is the cache key for the first pages of the public listing.
func ReleaseListKey(state string, limit, offset int) string {
	return fmt.Sprintf(releaseListPrefix, state, limit, offset)
}

// Invalidate deletes a single cache key. A nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateRelease drops the detail entry for a release.
func InvalidateRelease(ctx context.Context, releaseID string) {
	Invalidate(ctx, ReleaseKey(releaseID))
}

// InvalidateReleaseLists drops all cached listing pages. Listing keys are
// few (first pages only), so a SCAN keeps this cheap.
func InvalidateReleaseLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "releases:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
