package ports

import (
	"context"
)

// ResolvedAddress is what a postal code lookup returns.
type ResolvedAddress struct {
	PostalCode string
	City       string
	State      string
	Street     string
	District   string
}

// AddressResolver resolves a postal code to its address.
type AddressResolver interface {
	// Resolve returns errs.ObjectNotFoundError for unknown postal codes and
	// errs.DependencyIsUnavailableError when the lookup service fails.
	Resolve(ctx context.Context, postalCode string) (ResolvedAddress, error)
}
