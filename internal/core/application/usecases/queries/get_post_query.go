package queries

import (
	"errors"
	"strings"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/pkg/guard"
)

var ErrGetPostQueryIsNotConstructed = errors.New(
	"GetPostQuery must be created via NewGetPostQuery constructor",
)

// GetPostQuery looks a post up by its public tracking code.
//
// Example:
//
//	query, err := NewGetPostQuery("3f1c2a9e-7d4b-4c1e-9a55-0b6f2e8d1c3a")
//	if err != nil {
//	    return err
//	}
//	p, err := handler.Handle(ctx, query)
type GetPostQuery struct {
	trackingCode kernel.TrackingCode

	guard guard.ConstructorGuard
}

// NewGetPostQuery parses the tracking code.
func NewGetPostQuery(trackingCode string) (GetPostQuery, error) {
	code, err := kernel.TrackingCodeFromString(strings.TrimSpace(trackingCode))
	if err != nil {
		return GetPostQuery{}, err
	}

	return GetPostQuery{
		trackingCode: code,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPostQuery) Validate() error {
	return q.guard.Validate(ErrGetPostQueryIsNotConstructed)
}

// TrackingCode returns the code to look up.
func (q GetPostQuery) TrackingCode() kernel.TrackingCode {
	return q.trackingCode
}
