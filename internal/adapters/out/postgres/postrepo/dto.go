// Package postrepo maps the Post aggregate to the posts table.
//
// Weight and dimensions are embedded columns, the history is a jsonb array
// and the address is a belongs-to association that is preloaded on reads and
// never written through the post.
package postrepo

import (
	"encoding/json"
	"time"

	"posttracker/internal/adapters/out/postgres/addressrepo"
	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PostDTO is the row of the posts table.
type PostDTO struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	TrackingCode      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Email             string    `gorm:"not null"`
	Carrier           string    `gorm:"not null"`
	Parcel            ParcelDTO `gorm:"embedded"`
	Volume            float64   `gorm:"not null"`
	Fee               float64   `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	EstimatedDelivery time.Time `gorm:"not null;index"`
	DispatchedAt      *time.Time
	DeliveredAt       *time.Time
	Status            int                    `gorm:"not null;index"`
	History           datatypes.JSON         `gorm:"type:jsonb;not null"`
	AddressID         int64                  `gorm:"not null;index"`
	Address           addressrepo.AddressDTO `gorm:"foreignKey:AddressID"`
	Version           int                    `gorm:"not null;default:1"`
}

// TableName overrides GORM's default naming.
func (PostDTO) TableName() string {
	return "posts"
}

// ParcelDTO holds weight (kg) and dimensions (cm).
type ParcelDTO struct {
	Weight float64 `gorm:"not null"`
	Height float64 `gorm:"not null"`
	Width  float64 `gorm:"not null"`
	Length float64 `gorm:"not null"`
}

// HistoryEntryDTO is one element of the history column.
type HistoryEntryDTO struct {
	At     time.Time `json:"at"`
	Status string    `json:"status"`
}

func fromDomain(p *post.Post) (PostDTO, error) {
	s := p.Snapshot()

	history, err := encodeHistory(s.History)
	if err != nil {
		return PostDTO{}, err
	}

	return PostDTO{
		ID:           s.ID,
		TrackingCode: s.TrackingCode.Bytes(),
		Email:        s.Email,
		Carrier:      s.Carrier,
		Parcel: ParcelDTO{
			Weight: s.Weight,
			Height: s.Height,
			Width:  s.Width,
			Length: s.Length,
		},
		Volume:            s.Volume,
		Fee:               s.Fee,
		CreatedAt:         s.CreatedAt,
		EstimatedDelivery: s.EstimatedDelivery,
		DispatchedAt:      s.DispatchedAt,
		DeliveredAt:       s.DeliveredAt,
		Status:            int(s.Status),
		History:           history,
		AddressID:         s.Address.ID(),
		Version:           s.Version,
	}, nil
}

func toDomain(dto PostDTO) (*post.Post, error) {
	code, err := kernel.TrackingCodeFromBytes(dto.TrackingCode[:])
	if err != nil {
		return nil, err
	}

	address, err := addressrepo.ToDomain(dto.Address)
	if err != nil {
		return nil, err
	}

	history, err := decodeHistory(dto.History)
	if err != nil {
		return nil, err
	}

	return post.RestorePost(post.Snapshot{
		ID:                dto.ID,
		TrackingCode:      code,
		Email:             dto.Email,
		Carrier:           dto.Carrier,
		Weight:            dto.Parcel.Weight,
		Height:            dto.Parcel.Height,
		Width:             dto.Parcel.Width,
		Length:            dto.Parcel.Length,
		Volume:            dto.Volume,
		Fee:               dto.Fee,
		CreatedAt:         dto.CreatedAt.UTC(),
		EstimatedDelivery: dto.EstimatedDelivery.UTC(),
		DispatchedAt:      utc(dto.DispatchedAt),
		DeliveredAt:       utc(dto.DeliveredAt),
		Status:            post.Status(dto.Status),
		History:           history,
		Address:           address,
		Version:           dto.Version,
	})
}

func encodeHistory(entries []post.HistoryEntry) (datatypes.JSON, error) {
	out := make([]HistoryEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryDTO{At: e.At, Status: e.Status.String()}
	}
	return json.Marshal(out)
}

func decodeHistory(raw datatypes.JSON) ([]post.HistoryEntry, error) {
	var dtos []HistoryEntryDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}

	entries := make([]post.HistoryEntry, len(dtos))
	for i, d := range dtos {
		status, err := post.ParseStatus(d.Status)
		if err != nil {
			return nil, err
		}
		entries[i] = post.HistoryEntry{At: d.At.UTC(), Status: status}
	}
	return entries, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
