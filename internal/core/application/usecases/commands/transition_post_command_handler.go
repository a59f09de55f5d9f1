package commands

import (
	"context"
	"log/slog"

	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/metrics"
)

// Routes names the broker queues and routing keys used by the lifecycle.
type Routes struct {
	CreatedQueue       string
	CreatedRoutingKey  string
	OnCourseQueue      string
	OnCourseRoutingKey string
}

// TransitionPostCommandHandler is the lifecycle engine: it moves a post
// through CREATED → IN_TRANSIT → DELIVERED.
//
// Steps, in order:
//  1. load the post and apply the transition table; a rejected transition
//     stops here with nothing changed
//  2. run the broker handshake for the target status, blocking the caller:
//     IN_TRANSIT drains the creation event (in-transit message) and publishes
//     "updated_post"; DELIVERED drains the in-transit event (delivered message)
//  3. persist status, timestamp and history with an optimistic version check
//  4. refresh the cache entry if one exists
//
// A handshake failure aborts before anything is stored. A persist failure
// after the handshake leaves the drained message settled and any published
// event in place; retrying the transition then times out waiting for an event
// that was already consumed.
type TransitionPostCommandHandler struct {
	uowFactory PostUoWFactory
	notifier   LifecycleNotifier
	cache      ports.PostCache
	routes     Routes
	clock      Clock
	logger     *slog.Logger
}

// NewTransitionPostCommandHandler creates the lifecycle engine. A nil clock
// falls back to SystemClock.
func NewTransitionPostCommandHandler(
	uowFactory PostUoWFactory,
	notifier LifecycleNotifier,
	cache ports.PostCache,
	routes Routes,
	clock Clock,
	logger *slog.Logger,
) TransitionPostCommandHandler {
	if clock == nil {
		clock = SystemClock
	}
	return TransitionPostCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		cache:      cache,
		routes:     routes,
		clock:      clock,
		logger:     logger.With("component", "transition_post"),
	}
}

// Handle applies the transition and returns the post as stored.
func (h *TransitionPostCommandHandler) Handle(ctx context.Context, cmd TransitionPostCommand) (*post.Post, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()

	p, err := uow.PostRepository().Get(ctx, cmd.PostID())
	if err != nil {
		return nil, err
	}

	tr, err := p.Transition(cmd.Status(), h.clock())
	if err != nil {
		metrics.PostTransitionsTotal.WithLabelValues(cmd.Status().String(), "rejected").Inc()
		return nil, err
	}

	if err = h.handshake(ctx, p, tr); err != nil {
		metrics.PostTransitionsTotal.WithLabelValues(tr.To.String(), "failed").Inc()
		return nil, err
	}

	updated, err := h.persist(ctx, uow, p)
	if err != nil {
		metrics.PostTransitionsTotal.WithLabelValues(tr.To.String(), "failed").Inc()
		h.logger.Error("failed to persist transition after handshake",
			"post_id", p.ID(), "to", tr.To.String(), "error", err)
		return nil, err
	}

	refreshed, err := h.cache.Refresh(ctx, updated)
	if err != nil {
		h.logger.Warn("failed to refresh cached post",
			"tracking_code", updated.TrackingCode().String(), "error", err)
	}

	metrics.PostTransitionsTotal.WithLabelValues(tr.To.String(), "applied").Inc()
	h.logger.Info("post transitioned",
		"post_id", updated.ID(),
		"from", tr.From.String(),
		"to", tr.To.String(),
		"cache_refreshed", refreshed)

	return updated, nil
}

func (h *TransitionPostCommandHandler) handshake(ctx context.Context, p *post.Post, tr post.Transition) error {
	switch tr.To {
	case post.InTransit:
		if err := h.notifier.AwaitPredecessor(ctx, h.routes.CreatedQueue, p.ID(), notification.InTransitMessage); err != nil {
			return err
		}
		return h.notifier.PublishSuccessor(ctx, h.routes.OnCourseRoutingKey, notification.NewUpdatedPostEvent(p))
	case post.Delivered:
		return h.notifier.AwaitPredecessor(ctx, h.routes.OnCourseQueue, p.ID(), notification.DeliveredMessage)
	default:
		return nil
	}
}

func (h *TransitionPostCommandHandler) persist(ctx context.Context, uow PostUoW, p *post.Post) (*post.Post, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	updated, err := uow.PostRepository().Update(ctx, p)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}
