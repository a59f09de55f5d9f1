package notification

import (
	"encoding/json"
	"fmt"

	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"
)

// Action names the kind of event on the wire.
type Action string

const (
	ActionPostCreated Action = "post_created"
	ActionUpdatedPost Action = "updated_post"
)

// Data is the post projection carried by an Event.
type Data struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	TrackingCode string `json:"tracking_code"`
	Carrier      string `json:"carrier"`
}

// Event is the broker message body.
type Event struct {
	Action Action `json:"action"`
	Data   Data   `json:"data"`
}

// NewPostCreatedEvent builds the event published when p is created.
func NewPostCreatedEvent(p *post.Post) Event {
	return Event{Action: ActionPostCreated, Data: dataOf(p)}
}

// NewUpdatedPostEvent builds the event published when p is dispatched.
func NewUpdatedPostEvent(p *post.Post) Event {
	return Event{Action: ActionUpdatedPost, Data: dataOf(p)}
}

// Marshal encodes the event as JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes a broker message body. Bodies that are not JSON or
// that carry no post id are reported as errs.ValueIsInvalidError.
func UnmarshalEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("event", err)
	}
	if e.Data.ID <= 0 {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("post id %d is not greater than 0", e.Data.ID))
	}
	return e, nil
}

// Predicate selects events while draining a queue.
type Predicate func(Event) bool

// ForPost matches events about the post with the given id.
func ForPost(id int64) Predicate {
	return func(e Event) bool {
		return e.Data.ID == id
	}
}

func dataOf(p *post.Post) Data {
	return Data{
		ID:           p.ID(),
		Email:        p.Email(),
		TrackingCode: p.TrackingCode().String(),
		Carrier:      p.Carrier(),
	}
}
