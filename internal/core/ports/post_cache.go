package ports

import (
	"context"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
)

// PostCache is a read-through cache of post snapshots keyed by tracking code.
// Entries expire after a fixed TTL.
type PostCache interface {
	// Get returns the cached post. The boolean is false on a miss.
	Get(ctx context.Context, code kernel.TrackingCode) (*post.Post, bool, error)

	// Set stores p, replacing any existing entry, and starts a new TTL.
	Set(ctx context.Context, p *post.Post) error

	// Refresh overwrites the entry for p only if one exists, resetting its
	// TTL. It reports whether an entry was overwritten.
	Refresh(ctx context.Context, p *post.Post) (bool, error)
}
