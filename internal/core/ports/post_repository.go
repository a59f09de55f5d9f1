package ports

import (
	"context"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
)

// PostRepository is the persistence contract for the Post aggregate.
//
// Implementations report missing posts as errs.ObjectNotFoundError, a
// concurrent modification as errs.VersionIsInvalidError, a duplicate tracking
// code as errs.ConflictError and connectivity problems as
// errs.DependencyIsUnavailableError.
type PostRepository interface {
	// Add stores a new post and returns it with its store-assigned id.
	// The post's address must already be stored.
	Add(ctx context.Context, aggregate *post.Post) (*post.Post, error)

	// Update persists the status, timestamps and history of an existing post
	// if the stored version still equals aggregate.Version(). The returned
	// post carries the incremented version.
	Update(ctx context.Context, aggregate *post.Post) (*post.Post, error)

	// Get retrieves a post by its store-assigned id.
	Get(ctx context.Context, id int64) (*post.Post, error)

	// GetByTrackingCode retrieves a post by its public tracking code.
	GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*post.Post, error)

	// ExistsByTrackingCode reports whether any post uses code.
	ExistsByTrackingCode(ctx context.Context, code kernel.TrackingCode) (bool, error)
}
