package postcache

import (
	"time"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
)

type cachedAddress struct {
	ID         int64  `json:"id"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	Street     string `json:"street"`
	District   string `json:"district"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
}

type cachedHistoryEntry struct {
	At     time.Time `json:"at"`
	Status string    `json:"status"`
}

// cachedPost is the JSON document stored under a post's key.
type cachedPost struct {
	ID                int64                `json:"id"`
	TrackingCode      string               `json:"tracking_code"`
	Email             string               `json:"email"`
	Carrier           string               `json:"carrier"`
	Weight            float64              `json:"weight"`
	Height            float64              `json:"height"`
	Width             float64              `json:"width"`
	Length            float64              `json:"length"`
	Volume            float64              `json:"volume"`
	Fee               float64              `json:"fee"`
	CreatedAt         time.Time            `json:"created_at"`
	EstimatedDelivery time.Time            `json:"estimated_delivery"`
	DispatchedAt      *time.Time           `json:"dispatched_at,omitempty"`
	DeliveredAt       *time.Time           `json:"delivered_at,omitempty"`
	Status            string               `json:"status"`
	History           []cachedHistoryEntry `json:"history"`
	Address           cachedAddress        `json:"address"`
	Version           int                  `json:"version"`
}

func fromDomain(p *post.Post) cachedPost {
	s := p.Snapshot()

	history := make([]cachedHistoryEntry, len(s.History))
	for i, e := range s.History {
		history[i] = cachedHistoryEntry{At: e.At, Status: e.Status.String()}
	}

	a := s.Address
	return cachedPost{
		ID:                s.ID,
		TrackingCode:      s.TrackingCode.String(),
		Email:             s.Email,
		Carrier:           s.Carrier,
		Weight:            s.Weight,
		Height:            s.Height,
		Width:             s.Width,
		Length:            s.Length,
		Volume:            s.Volume,
		Fee:               s.Fee,
		CreatedAt:         s.CreatedAt,
		EstimatedDelivery: s.EstimatedDelivery,
		DispatchedAt:      s.DispatchedAt,
		DeliveredAt:       s.DeliveredAt,
		Status:            s.Status.String(),
		History:           history,
		Address: cachedAddress{
			ID:         a.ID(),
			PostalCode: a.PostalCode(),
			City:       a.City(),
			State:      a.State(),
			Street:     a.Street(),
			District:   a.District(),
			Number:     a.Number(),
			Complement: a.Complement(),
		},
		Version: s.Version,
	}
}

func (c cachedPost) toDomain() (*post.Post, error) {
	code, err := kernel.TrackingCodeFromString(c.TrackingCode)
	if err != nil {
		return nil, err
	}

	status, err := post.ParseStatus(c.Status)
	if err != nil {
		return nil, err
	}

	history := make([]post.HistoryEntry, len(c.History))
	for i, e := range c.History {
		s, parseErr := post.ParseStatus(e.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		history[i] = post.HistoryEntry{At: e.At.UTC(), Status: s}
	}

	address, err := post.RestoreAddress(
		c.Address.ID,
		c.Address.PostalCode,
		c.Address.City,
		c.Address.State,
		c.Address.Street,
		c.Address.District,
		c.Address.Number,
		c.Address.Complement,
	)
	if err != nil {
		return nil, err
	}

	return post.RestorePost(post.Snapshot{
		ID:                c.ID,
		TrackingCode:      code,
		Email:             c.Email,
		Carrier:           c.Carrier,
		Weight:            c.Weight,
		Height:            c.Height,
		Width:             c.Width,
		Length:            c.Length,
		Volume:            c.Volume,
		Fee:               c.Fee,
		CreatedAt:         c.CreatedAt.UTC(),
		EstimatedDelivery: c.EstimatedDelivery.UTC(),
		DispatchedAt:      c.DispatchedAt,
		DeliveredAt:       c.DeliveredAt,
		Status:            status,
		History:           history,
		Address:           address,
		Version:           c.Version,
	})
}
