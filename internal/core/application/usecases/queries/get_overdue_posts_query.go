package queries

import (
	"errors"
	"time"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"
	"posttracker/internal/pkg/guard"
)

var ErrGetOverduePostsQueryIsNotConstructed = errors.New(
	"GetOverduePostsQuery must be created via NewGetOverduePostsQuery constructor",
)

// GetOverduePostsQuery lists posts that are not delivered although their
// estimated delivery date has passed.
//
// Example:
//
//	query, _ := NewGetOverduePostsQuery(time.Now())
//	overdue, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get overdue posts: %w", err)
//	}
//	fmt.Printf("%d posts are late\n", len(overdue))
type GetOverduePostsQuery struct {
	now time.Time

	guard guard.ConstructorGuard
}

// NewGetOverduePostsQuery creates the query for the reference time now.
func NewGetOverduePostsQuery(now time.Time) (GetOverduePostsQuery, error) {
	if now.IsZero() {
		return GetOverduePostsQuery{}, errs.NewValueIsRequiredError("now")
	}
	return GetOverduePostsQuery{now: now, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOverduePostsQuery) Validate() error {
	return q.guard.Validate(ErrGetOverduePostsQueryIsNotConstructed)
}

// Now returns the reference time.
func (q GetOverduePostsQuery) Now() time.Time {
	return q.now
}

// GetOverduePostsQueryResponse is one overdue post.
type GetOverduePostsQueryResponse struct {
	ID                int64
	TrackingCode      kernel.TrackingCode
	Carrier           string
	Status            post.Status
	EstimatedDelivery time.Time
}
