package postrepo

import (
	"context"
	"errors"
	"fmt"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// GormPostRepository implements ports.PostRepository using GORM.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM post repository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Add inserts a new post. The address association is not written.
func (r *GormPostRepository) Add(ctx context.Context, aggregate *post.Post) (*post.Post, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}
	if aggregate.ID() != 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("post", fmt.Errorf("already stored with id %d", aggregate.ID()))
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return nil, err
	}

	if err = r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return nil, translate(err)
	}

	s := aggregate.Snapshot()
	s.ID = dto.ID
	return post.RestorePost(s)
}

// Update writes status, timestamps and history if the stored version matches
// and bumps the version by one.
func (r *GormPostRepository) Update(ctx context.Context, aggregate *post.Post) (*post.Post, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&PostDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":        dto.Status,
			"dispatched_at": dto.DispatchedAt,
			"delivered_at":  dto.DeliveredAt,
			"history":       dto.History,
			"version":       dto.Version + 1,
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err = r.db.WithContext(ctx).Model(&PostDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return nil, translate(err)
		}
		if count == 0 {
			return nil, errs.NewObjectNotFoundError("post", dto.ID)
		}
		return nil, errs.NewVersionIsInvalidErrorWithCause(
			"post",
			fmt.Errorf("post %d was modified concurrently (expected version %d)", dto.ID, dto.Version),
		)
	}

	s := aggregate.Snapshot()
	s.Version++
	return post.RestorePost(s)
}

// Get retrieves a post by id, with its address.
func (r *GormPostRepository) Get(ctx context.Context, id int64) (*post.Post, error) {
	var dto PostDTO
	err := r.db.WithContext(ctx).Preload("Address").First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("post", id)
		}
		return nil, translate(err)
	}

	return toDomain(dto)
}

// GetByTrackingCode retrieves a post by tracking code, with its address.
func (r *GormPostRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*post.Post, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dto PostDTO
	err := r.db.WithContext(ctx).Preload("Address").First(&dto, "tracking_code = ?", code.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("post", code.String())
		}
		return nil, translate(err)
	}

	return toDomain(dto)
}

// ExistsByTrackingCode reports whether a post uses code.
func (r *GormPostRepository) ExistsByTrackingCode(ctx context.Context, code kernel.TrackingCode) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PostDTO{}).Where("tracking_code = ?", code.Bytes()).Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// translate maps driver errors onto the error taxonomy. A duplicate tracking
// code (unique violation) is a conflict; everything else means the store is
// not usable right now.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errs.NewConflictErrorWithCause("tracking code", err)
	}
	return errs.NewDependencyIsUnavailableErrorWithCause("postgres", err)
}
