package queries

import (
	"context"
	"time"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOverduePostsQueryHandler reads overdue posts straight from the database.
// Results are sorted by estimated delivery, oldest first.
type GetOverduePostsQueryHandler struct {
	db *gorm.DB
}

// NewGetOverduePostsQueryHandler creates the handler.
func NewGetOverduePostsQueryHandler(db *gorm.DB) GetOverduePostsQueryHandler {
	return GetOverduePostsQueryHandler{db: db}
}

// Handle executes the query.
func (h GetOverduePostsQueryHandler) Handle(
	ctx context.Context,
	query GetOverduePostsQuery,
) ([]GetOverduePostsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	overdue := make([]GetOverduePostsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_code,
			carrier,
			status,
			estimated_delivery
		FROM posts
		WHERE status != ? AND estimated_delivery < ?
		ORDER BY estimated_delivery, id
	`, int(post.Delivered), query.Now()).Rows()
	if err != nil {
		return nil, errs.NewDependencyIsUnavailableErrorWithCause("postgres", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp              GetOverduePostsQueryResponse
			code              uuid.UUID
			status            int
			estimatedDelivery time.Time
		)

		if err = rows.Scan(&resp.ID, &code, &resp.Carrier, &status, &estimatedDelivery); err != nil {
			return nil, err
		}

		trackingCode, codeErr := kernel.TrackingCodeFromBytes(code[:])
		if codeErr != nil {
			return nil, codeErr
		}
		resp.TrackingCode = trackingCode
		resp.Status = post.Status(status)
		resp.EstimatedDelivery = estimatedDelivery.UTC()

		overdue = append(overdue, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewDependencyIsUnavailableErrorWithCause("postgres", err)
	}

	return overdue, nil
}
