// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"posttracker/internal/core/domain/model/notification"
	"posttracker/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// PostRepoFactory provides access to the post repository within a transaction.
	PostRepoFactory interface {
		PostRepository() ports.PostRepository
	}

	// AddressRepoFactory provides access to the address repository within a transaction.
	AddressRepoFactory interface {
		AddressRepository() ports.AddressRepository
	}

	// PostUoW manages transactions for post-only operations.
	PostUoW interface {
		TxManager
		PostRepoFactory
	}

	// PostUoWFactory creates new post unit of work instances.
	PostUoWFactory interface {
		Create() PostUoW
	}

	// UoW manages transactions that write both an address and a post.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   address, err := uow.AddressRepository().Add(ctx, address)
	//   p, err := uow.PostRepository().Add(ctx, p)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		PostRepoFactory
		AddressRepoFactory
	}

	// UoWFactory creates new unit of work instances for creation.
	UoWFactory interface {
		Create() UoW
	}
)

// LifecycleNotifier runs the broker handshake around a transition.
// notifications.Handshake implements it.
type LifecycleNotifier interface {
	AwaitPredecessor(ctx context.Context, queue string, postID int64, compose notification.Compose) error
	PublishSuccessor(ctx context.Context, routingKey string, event notification.Event) error
}

// Clock returns the current time.
type Clock func() time.Time

// SystemClock returns the current UTC time truncated to microseconds, the
// precision kept by the store.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
