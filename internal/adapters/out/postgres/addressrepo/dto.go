// Package addressrepo maps delivery addresses to the addresses table.
package addressrepo

import (
	"posttracker/internal/core/domain/model/post"
)

// AddressDTO is the row of the addresses table.
type AddressDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	PostalCode string `gorm:"size:8;not null;index"`
	City       string `gorm:"not null"`
	State      string `gorm:"not null"`
	Street     string
	District   string
	Number     string `gorm:"not null"`
	Complement string
}

// TableName overrides GORM's default naming.
func (AddressDTO) TableName() string {
	return "addresses"
}

// FromDomain converts an address to its row. Exported for postrepo, which
// preloads addresses together with posts.
func FromDomain(a *post.Address) AddressDTO {
	return AddressDTO{
		ID:         a.ID(),
		PostalCode: a.PostalCode(),
		City:       a.City(),
		State:      a.State(),
		Street:     a.Street(),
		District:   a.District(),
		Number:     a.Number(),
		Complement: a.Complement(),
	}
}

// ToDomain restores an address from its row.
func ToDomain(dto AddressDTO) (*post.Address, error) {
	return post.RestoreAddress(
		dto.ID,
		dto.PostalCode,
		dto.City,
		dto.State,
		dto.Street,
		dto.District,
		dto.Number,
		dto.Complement,
	)
}
