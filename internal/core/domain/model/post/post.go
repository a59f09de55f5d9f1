package post

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/pkg/errs"
)

// EstimatedDeliveryOffset is added to the creation time to estimate delivery.
const EstimatedDeliveryOffset = 20 * 24 * time.Hour

// ErrPostIsNotConstructed is returned when a Post was not built by NewPost or RestorePost.
var ErrPostIsNotConstructed = errors.New("Post must be created via NewPost constructor")

// Post is the aggregate root tracking one shipped parcel from creation to
// delivery.
//
// Post follows these invariants:
//   - volume and fee come from a Quote consistent with the parcel and never change
//   - the tracking code never changes once assigned
//   - status only moves through the transition table (see Status.TransitionTo)
//   - history holds exactly one entry per transition plus the creation entry,
//     in strictly increasing time order, and its last entry matches status
//   - the dispatch timestamp is set on entering InTransit, the delivery
//     timestamp on entering Delivered
type Post struct {
	id                int64
	trackingCode      kernel.TrackingCode
	email             string
	carrier           string
	parcel            kernel.Parcel
	quote             kernel.Quote
	createdAt         time.Time
	estimatedDelivery time.Time
	dispatchedAt      *time.Time
	deliveredAt       *time.Time
	status            Status
	history           History
	address           *Address
	version           int

	isConstructed bool
}

// NewPost creates a post in Created status. The address must already be
// persisted and the quote must have been computed for this parcel.
//
// Example:
//
//	parcel, _ := kernel.NewParcel(6.8, 10, 5, 10)
//	quote, _ := services.NewFeeCalculator().Calculate(parcel)
//	p, err := post.NewPost(code, "john@example.com", "correios", parcel, quote, address, now)
func NewPost(
	trackingCode kernel.TrackingCode,
	email string,
	carrier string,
	parcel kernel.Parcel,
	quote kernel.Quote,
	address *Address,
	createdAt time.Time,
) (*Post, error) {
	p := &Post{
		status:        Created,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setTrackingCode(trackingCode),
		p.setEmail(email),
		p.setCarrier(carrier),
		p.setParcelAndQuote(parcel, quote),
		p.setAddress(address, true),
		p.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	p.estimatedDelivery = p.createdAt.Add(EstimatedDeliveryOffset)
	p.history = NewHistory(p.createdAt)
	return p, nil
}

// Snapshot is the flat, persistence-friendly view of a post. It is used to
// restore posts from the store and from the cache.
type Snapshot struct {
	ID                int64
	TrackingCode      kernel.TrackingCode
	Email             string
	Carrier           string
	Weight            float64
	Height            float64
	Width             float64
	Length            float64
	Volume            float64
	Fee               float64
	CreatedAt         time.Time
	EstimatedDelivery time.Time
	DispatchedAt      *time.Time
	DeliveredAt       *time.Time
	Status            Status
	History           []HistoryEntry
	Address           *Address
	Version           int
}

// RestorePost rebuilds a persisted post and re-checks its invariants.
// Volume and fee are taken as stored, not recomputed.
func RestorePost(s Snapshot) (*Post, error) {
	if s.ID <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("post id", fmt.Errorf("%d is not greater than 0", s.ID))
	}
	if s.Version <= 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("post", fmt.Errorf("%d is not greater than 0", s.Version))
	}

	parcel, parcelErr := kernel.NewParcel(s.Weight, s.Height, s.Width, s.Length)
	quote, quoteErr := kernel.NewQuote(s.Volume, s.Fee)
	history, historyErr := RestoreHistory(s.History)

	p := &Post{
		id:                s.ID,
		parcel:            parcel,
		quote:             quote,
		estimatedDelivery: s.EstimatedDelivery,
		dispatchedAt:      s.DispatchedAt,
		deliveredAt:       s.DeliveredAt,
		status:            s.Status,
		history:           history,
		version:           s.Version,
		isConstructed:     true,
	}

	if err := errors.Join(
		parcelErr,
		quoteErr,
		historyErr,
		p.setTrackingCode(s.TrackingCode),
		p.setEmail(s.Email),
		p.setCarrier(s.Carrier),
		p.setAddress(s.Address, false),
		p.setCreatedAt(s.CreatedAt),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := p.checkLifecycleConsistency(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the post was built by a constructor.
func (p *Post) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPostIsNotConstructed
	}
	return nil
}

// ID returns the store-assigned id, or 0 before the post is persisted.
func (p *Post) ID() int64 { return p.id }

// TrackingCode returns the public identifier.
func (p *Post) TrackingCode() kernel.TrackingCode { return p.trackingCode }

// Email returns the recipient e-mail, upper-cased.
func (p *Post) Email() string { return p.email }

// Carrier returns the carrier name, upper-cased.
func (p *Post) Carrier() string { return p.carrier }

// Parcel returns weight and dimensions.
func (p *Post) Parcel() kernel.Parcel { return p.parcel }

// Volume returns the parcel volume in cubic centimetres.
func (p *Post) Volume() float64 { return p.quote.Volume() }

// Fee returns the shipping fee.
func (p *Post) Fee() float64 { return p.quote.Fee() }

// CreatedAt returns the creation time.
func (p *Post) CreatedAt() time.Time { return p.createdAt }

// EstimatedDelivery returns the creation time plus EstimatedDeliveryOffset.
func (p *Post) EstimatedDelivery() time.Time { return p.estimatedDelivery }

// DispatchedAt returns when the post entered InTransit, or nil.
func (p *Post) DispatchedAt() *time.Time { return copyTime(p.dispatchedAt) }

// DeliveredAt returns when the post entered Delivered, or nil.
func (p *Post) DeliveredAt() *time.Time { return copyTime(p.deliveredAt) }

// Status returns the current status.
func (p *Post) Status() Status { return p.status }

// History returns the status history.
func (p *Post) History() History { return p.history }

// Address returns the delivery address.
func (p *Post) Address() *Address { return p.address }

// Version returns the optimistic-concurrency version of the stored record.
func (p *Post) Version() int { return p.version }

// Transition moves the post to requested at time now.
//
// The change is validated against the transition table first; a rejected
// transition leaves the post untouched. On success the status is updated, a
// history entry is appended and the matching timestamp (dispatch or delivery)
// is set to the recorded history time.
func (p *Post) Transition(requested Status, now time.Time) (Transition, error) {
	if err := p.Validate(); err != nil {
		return Transition{}, err
	}

	tr, err := p.status.TransitionTo(requested)
	if err != nil {
		return Transition{}, err
	}

	at := p.history.append(now, requested)
	switch tr.Stamp {
	case DispatchStamp:
		p.dispatchedAt = &at
	case DeliveryStamp:
		p.deliveredAt = &at
	}
	p.status = requested

	return tr, nil
}

// Snapshot returns the flat view of the post.
func (p *Post) Snapshot() Snapshot {
	dims := p.parcel.Dimensions()
	return Snapshot{
		ID:                p.id,
		TrackingCode:      p.trackingCode,
		Email:             p.email,
		Carrier:           p.carrier,
		Weight:            p.parcel.Weight(),
		Height:            dims.Height(),
		Width:             dims.Width(),
		Length:            dims.Length(),
		Volume:            p.quote.Volume(),
		Fee:               p.quote.Fee(),
		CreatedAt:         p.createdAt,
		EstimatedDelivery: p.estimatedDelivery,
		DispatchedAt:      copyTime(p.dispatchedAt),
		DeliveredAt:       copyTime(p.deliveredAt),
		Status:            p.status,
		History:           p.history.Entries(),
		Address:           p.address,
		Version:           p.version,
	}
}

func (p *Post) setTrackingCode(code kernel.TrackingCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	p.trackingCode = code
	return nil
}

// ValidateEmail accepts a bare address such as "john@example.com"; display
// names and angle brackets are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not a bare e-mail address", email))
	}
	return nil
}

func (p *Post) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}
	p.email = strings.ToUpper(email)
	return nil
}

func (p *Post) setCarrier(carrier string) error {
	if strings.TrimSpace(carrier) == "" {
		return errs.NewValueIsRequiredError("carrier")
	}
	p.carrier = upper(carrier)
	return nil
}

func (p *Post) setParcelAndQuote(parcel kernel.Parcel, quote kernel.Quote) error {
	if err := errors.Join(parcel.Validate(), quote.Validate()); err != nil {
		return err
	}
	if parcel.Volume() != quote.Volume() {
		return errs.NewValueIsInvalidErrorWithCause(
			"quote",
			fmt.Errorf("quoted volume %v does not match parcel volume %v", quote.Volume(), parcel.Volume()),
		)
	}
	p.parcel = parcel
	p.quote = quote
	return nil
}

func (p *Post) setAddress(address *Address, requirePersisted bool) error {
	if err := address.Validate(); err != nil {
		return err
	}
	if requirePersisted && address.ID() <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("address", errors.New("address must be persisted before the post"))
	}
	p.address = address
	return nil
}

func (p *Post) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	p.createdAt = createdAt
	return nil
}

func (p *Post) checkLifecycleConsistency() error {
	last, _ := p.history.Last()
	if last.Status != p.status {
		return errs.NewValueIsInvalidErrorWithCause(
			"history",
			fmt.Errorf("last entry is %s but status is %s", last.Status, p.status),
		)
	}
	if p.status >= InTransit && p.dispatchedAt == nil {
		return errs.NewValueIsRequiredErrorWithCause("dispatched at", fmt.Errorf("required in status %s", p.status))
	}
	if p.status == Delivered && p.deliveredAt == nil {
		return errs.NewValueIsRequiredErrorWithCause("delivered at", fmt.Errorf("required in status %s", p.status))
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
