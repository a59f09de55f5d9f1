package http

import (
	"time"

	"posttracker/internal/core/application/usecases/queries"
	"posttracker/internal/core/domain/model/post"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewAddress is the address part of NewPost.
type NewAddress struct {
	PostalCode string `json:"postal_code"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
}

// NewPost is the body of POST /api/v1/posts.
type NewPost struct {
	Email   string     `json:"email"`
	Weight  float64    `json:"weight"`
	Height  float64    `json:"height"`
	Width   float64    `json:"width"`
	Length  float64    `json:"length"`
	Carrier string     `json:"carrier"`
	Address NewAddress `json:"address"`
}

// StatusChange is the body of PUT /api/v1/posts/:id/status.
type StatusChange struct {
	Status string `json:"status"`
}

// Address is the address part of Post.
type Address struct {
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	Street     string `json:"street"`
	District   string `json:"district"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
}

// HistoryEntry is one element of Post.History.
type HistoryEntry struct {
	At     time.Time `json:"at"`
	Status string    `json:"status"`
}

// Post is the representation returned by every post endpoint.
type Post struct {
	ID                int64          `json:"id"`
	TrackingCode      string         `json:"tracking_code"`
	Email             string         `json:"email"`
	Carrier           string         `json:"carrier"`
	Weight            float64        `json:"weight"`
	Height            float64        `json:"height"`
	Width             float64        `json:"width"`
	Length            float64        `json:"length"`
	Volume            float64        `json:"volume"`
	Fee               float64        `json:"fee"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
	DispatchedAt      *time.Time     `json:"dispatched_at"`
	DeliveredAt       *time.Time     `json:"delivered_at"`
	History           []HistoryEntry `json:"history"`
	Address           Address        `json:"address"`
}

// OverduePost is one element of GET /api/v1/posts/overdue.
type OverduePost struct {
	ID                int64     `json:"id"`
	TrackingCode      string    `json:"tracking_code"`
	Carrier           string    `json:"carrier"`
	Status            string    `json:"status"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

func toPost(p *post.Post) Post {
	s := p.Snapshot()

	history := make([]HistoryEntry, len(s.History))
	for i, e := range s.History {
		history[i] = HistoryEntry{At: e.At, Status: e.Status.String()}
	}

	a := p.Address()
	return Post{
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
		Status:            s.Status.String(),
		CreatedAt:         s.CreatedAt,
		EstimatedDelivery: s.EstimatedDelivery,
		DispatchedAt:      s.DispatchedAt,
		DeliveredAt:       s.DeliveredAt,
		History:           history,
		Address: Address{
			PostalCode: a.PostalCode(),
			City:       a.City(),
			State:      a.State(),
			Street:     a.Street(),
			District:   a.District(),
			Number:     a.Number(),
			Complement: a.Complement(),
		},
	}
}

func toOverduePost(r queries.GetOverduePostsQueryResponse) OverduePost {
	return OverduePost{
		ID:                r.ID,
		TrackingCode:      r.TrackingCode.String(),
		Carrier:           r.Carrier,
		Status:            r.Status.String(),
		EstimatedDelivery: r.EstimatedDelivery,
	}
}
