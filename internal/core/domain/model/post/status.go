package post

import (
	"errors"
	"fmt"
	"strings"

	"posttracker/internal/pkg/errs"
)

// Status represents the lifecycle state of a post. The progression is strictly
// ordered and never regresses:
//
//	Created ──> InTransit ──> Delivered
//
// Every (current, requested) pair is resolved through an explicit transition
// table; see Status.TransitionTo.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is the status of a newly registered post.
	Created

	// InTransit indicates the parcel has been dispatched by the carrier.
	InTransit

	// Delivered indicates the parcel reached the recipient. It is final.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Created:   "CREATED",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
	}
}

//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
func getValidStatusStrings() map[Status]string {
	return map[Status]string{
		Created:   "CREATED",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
	}
}

// ParseStatus converts the external string form (case-insensitive) into a Status.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getValidStatusStrings() {
		if str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not one of CREATED, IN_TRANSIT, DELIVERED", s),
	)
}

// Validate returns an error for Unknown and for out-of-range values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the external name of the status ("UNKNOWN" for invalid values).
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Stamp names the timestamp field set by an allowed transition.
type Stamp int

const (
	// DispatchStamp sets the dispatch timestamp (→ InTransit).
	DispatchStamp Stamp = iota + 1

	// DeliveryStamp sets the delivery timestamp (→ Delivered).
	DeliveryStamp
)

// Transition is the outcome of an allowed status change.
type Transition struct {
	From  Status
	To    Status
	Stamp Stamp
}

type transitionRule struct {
	stamp  Stamp
	reject error
}

var (
	ErrBackToCreated      = errors.New("a post cannot be moved back to CREATED")
	ErrSameStatus         = errors.New("the post already has the requested status")
	ErrAlreadyDelivered   = errors.New("the post has already been delivered")
	ErrSkippedTransit     = errors.New("the post must pass through IN_TRANSIT before DELIVERED")
	ErrTransitionNotInMap = errors.New("no rule for this transition")
)

// transitionTable covers every pair of valid statuses. Rows are the current
// status, columns the requested one.
//
//nolint:gochecknoglobals // immutable lookup table
var transitionTable = map[Status]map[Status]transitionRule{
	Created: {
		Created:   {reject: ErrBackToCreated},
		InTransit: {stamp: DispatchStamp},
		Delivered: {reject: ErrSkippedTransit},
	},
	InTransit: {
		Created:   {reject: ErrBackToCreated},
		InTransit: {reject: ErrSameStatus},
		Delivered: {stamp: DeliveryStamp},
	},
	Delivered: {
		Created:   {reject: ErrBackToCreated},
		InTransit: {reject: ErrAlreadyDelivered},
		Delivered: {reject: ErrSameStatus},
	},
}

// TransitionTo resolves a requested status change against the transition table.
//
// Returns:
//   - the Transition when the change is allowed
//   - errs.ValueIsInvalidError when either status is not a valid value
//   - errs.ConflictError wrapping the rejection reason otherwise
//
// Example:
//
//	tr, err := post.Created.TransitionTo(post.InTransit)
//	// tr.Stamp == post.DispatchStamp
func (s Status) TransitionTo(requested Status) (Transition, error) {
	if err := errors.Join(s.Validate(), requested.Validate()); err != nil {
		return Transition{}, err
	}

	rule, ok := transitionTable[s][requested]
	if !ok {
		return Transition{}, errs.NewConflictErrorWithCause("status", ErrTransitionNotInMap)
	}
	if rule.reject != nil {
		return Transition{}, errs.NewConflictErrorWithCause(
			"status",
			fmt.Errorf("%s -> %s: %w", s, requested, rule.reject),
		)
	}

	return Transition{From: s, To: requested, Stamp: rule.stamp}, nil
}
