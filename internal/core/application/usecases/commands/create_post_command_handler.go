package commands

import (
	"context"
	"log/slog"

	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/core/domain/services"
	"posttracker/internal/core/ports"
	"posttracker/internal/pkg/errs"
	"posttracker/internal/pkg/metrics"
)

// CreatePostCommandHandler registers new posts.
//
// The postal code is resolved first, outside of any transaction; an
// unresolvable code is reported as an invalid postal code and nothing is
// stored. The address, the post and the "post_created" event then succeed or
// fail together: the event is published before commit, so a failed publish
// rolls the insert back. A commit failure after a successful publish leaves an
// event for a post that does not exist; consumers match events by post id and
// never find it.
type CreatePostCommandHandler struct {
	uowFactory        UoWFactory
	resolver          ports.AddressResolver
	publisher         ports.MessagePublisher
	calculator        services.FeeCalculator
	allocator         services.TrackingCodeAllocator
	createdRoutingKey string
	clock             Clock
	logger            *slog.Logger
}

// NewCreatePostCommandHandler creates a handler for post creation. A nil clock
// falls back to SystemClock.
func NewCreatePostCommandHandler(
	uowFactory UoWFactory,
	resolver ports.AddressResolver,
	publisher ports.MessagePublisher,
	allocator services.TrackingCodeAllocator,
	createdRoutingKey string,
	clock Clock,
	logger *slog.Logger,
) CreatePostCommandHandler {
	if clock == nil {
		clock = SystemClock
	}
	return CreatePostCommandHandler{
		uowFactory:        uowFactory,
		resolver:          resolver,
		publisher:         publisher,
		calculator:        services.NewFeeCalculator(),
		allocator:         allocator,
		createdRoutingKey: createdRoutingKey,
		clock:             clock,
		logger:            logger.With("component", "create_post"),
	}
}

// Handle creates the post and returns it as stored.
func (h *CreatePostCommandHandler) Handle(ctx context.Context, cmd CreatePostCommand) (*post.Post, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	resolved, err := h.resolver.Resolve(ctx, cmd.PostalCode())
	if err != nil {
		h.logger.Warn("postal code lookup failed", "postal_code", cmd.PostalCode(), "error", err)
		return nil, errs.NewValueIsInvalidErrorWithCause("postal code", err)
	}

	address, err := post.NewAddress(
		cmd.PostalCode(),
		resolved.City,
		resolved.State,
		resolved.Street,
		resolved.District,
		cmd.Number(),
		cmd.Complement(),
	)
	if err != nil {
		return nil, err
	}

	quote, err := h.calculator.Calculate(cmd.Parcel())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	address, err = uow.AddressRepository().Add(ctx, address)
	if err != nil {
		return nil, err
	}

	postRepo := uow.PostRepository()
	code, err := h.allocator.Allocate(ctx, postRepo)
	if err != nil {
		return nil, err
	}

	p, err := post.NewPost(code, cmd.Email(), cmd.Carrier(), cmd.Parcel(), quote, address, h.clock())
	if err != nil {
		return nil, err
	}

	stored, err := postRepo.Add(ctx, p)
	if err != nil {
		return nil, err
	}

	if err = h.publisher.Publish(ctx, h.createdRoutingKey, notification.NewPostCreatedEvent(stored)); err != nil {
		h.logger.Error("failed to publish post_created", "post_id", stored.ID(), "error", err)
		return nil, errs.NewDependencyIsUnavailableErrorWithCause("message broker", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.PostsCreatedTotal.Inc()
	h.logger.Info("post created",
		"post_id", stored.ID(),
		"tracking_code", stored.TrackingCode().String(),
		"fee", stored.Fee())

	return stored, nil
}
