package ports

import (
	"context"

	"posttracker/internal/core/domain/model/post"
)

// AddressRepository stores delivery addresses. Addresses are written once and
// read back together with their post.
type AddressRepository interface {
	// Add stores a new address and returns it with its store-assigned id.
	Add(ctx context.Context, address *post.Address) (*post.Address, error)
}
