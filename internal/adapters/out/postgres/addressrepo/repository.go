package addressrepo

import (
	"context"
	"fmt"

	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAddressRepository implements ports.AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GORM address repository.
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Add inserts a new address and returns it with its id.
func (r *GormAddressRepository) Add(ctx context.Context, address *post.Address) (*post.Address, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if address.ID() != 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("address", fmt.Errorf("already stored with id %d", address.ID()))
	}

	dto := FromDomain(address)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, errs.NewDependencyIsUnavailableErrorWithCause("postgres", err)
	}

	return ToDomain(dto)
}
