package services

import (
	"context"

	"posttracker/internal/core/domain/model/kernel"
)

// TrackingCodeChecker reports whether a tracking code is already taken.
// ports.PostRepository satisfies it.
type TrackingCodeChecker interface {
	ExistsByTrackingCode(ctx context.Context, code kernel.TrackingCode) (bool, error)
}

// TrackingCodeAllocator produces tracking codes that are not yet used by any
// stored post.
//
// Candidates are drawn until the checker reports one as free. There is no
// retry cap: with 122 random bits a collision is practically impossible, and
// the loop stops as soon as ctx is done. The store's unique constraint remains
// the final guard against a concurrent insert of the same code.
type TrackingCodeAllocator struct {
	generate func() kernel.TrackingCode
}

// NewTrackingCodeAllocator creates an allocator backed by kernel.NewTrackingCode.
func NewTrackingCodeAllocator() TrackingCodeAllocator {
	return TrackingCodeAllocator{generate: kernel.NewTrackingCode}
}

// NewTrackingCodeAllocatorWithGenerator creates an allocator with a custom
// candidate source. A nil generator falls back to kernel.NewTrackingCode.
func NewTrackingCodeAllocatorWithGenerator(generate func() kernel.TrackingCode) TrackingCodeAllocator {
	if generate == nil {
		generate = kernel.NewTrackingCode
	}
	return TrackingCodeAllocator{generate: generate}
}

// Allocate returns the first candidate code unknown to checker.
func (a TrackingCodeAllocator) Allocate(ctx context.Context, checker TrackingCodeChecker) (kernel.TrackingCode, error) {
	generate := a.generate
	if generate == nil {
		generate = kernel.NewTrackingCode
	}

	for {
		if err := ctx.Err(); err != nil {
			return kernel.TrackingCode{}, err
		}

		code := generate()
		exists, err := checker.ExistsByTrackingCode(ctx, code)
		if err != nil {
			return kernel.TrackingCode{}, err
		}
		if !exists {
			return code, nil
		}
	}
}
