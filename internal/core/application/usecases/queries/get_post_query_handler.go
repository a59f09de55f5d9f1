package queries

import (
	"context"
	"log/slog"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/metrics"
)

// PostReader loads a post by tracking code from the store.
type PostReader interface {
	GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*post.Post, error)
}

// GetPostQueryHandler serves posts read-through the cache.
//
// A cache hit is returned without touching the store. On a miss the post is
// loaded from the store and written to the cache for the cache TTL. Cache
// failures on either side are logged and the store result is served.
// Concurrent misses for the same code each hit the store.
type GetPostQueryHandler struct {
	reader PostReader
	cache  ports.PostCache
	logger *slog.Logger
}

// NewGetPostQueryHandler creates the handler.
func NewGetPostQueryHandler(reader PostReader, cache ports.PostCache, logger *slog.Logger) GetPostQueryHandler {
	return GetPostQueryHandler{
		reader: reader,
		cache:  cache,
		logger: logger.With("component", "get_post"),
	}
}

// Handle returns the post or errs.ObjectNotFoundError.
func (h GetPostQueryHandler) Handle(ctx context.Context, query GetPostQuery) (*post.Post, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	code := query.TrackingCode()

	cached, ok, err := h.cache.Get(ctx, code)
	switch {
	case err != nil:
		metrics.PostCacheRequestsTotal.WithLabelValues("error").Inc()
		h.logger.Warn("failed to read cached post", "tracking_code", code.String(), "error", err)
	case ok:
		metrics.PostCacheRequestsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.PostCacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	p, err := h.reader.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err = h.cache.Set(ctx, p); err != nil {
		h.logger.Warn("failed to cache post", "tracking_code", code.String(), "error", err)
	}

	return p, nil
}
