package kernel

import (
	"fmt"

	"posttracker/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrTrackingCodeIsNotConstructed indicates a zero-value tracking code.
var ErrTrackingCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking code must be created via NewTrackingCode, TrackingCodeFromString, or TrackingCodeFromBytes",
)

// TrackingCode is the public identifier of a post. It is a 128-bit random
// value (UUID version 4) that is unique across all posts and never changes
// once assigned. It is distinct from the store-assigned numeric id.
//
// The zero value is invalid.
//
// Example:
//
//	code := kernel.NewTrackingCode()
//	parsed, err := kernel.TrackingCodeFromString(code.String())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(parsed.IsEqual(code)) // true
type TrackingCode struct {
	id uuid.UUID
}

// NewTrackingCode generates a new random tracking code. Uniqueness against
// existing posts is not checked here; see services.TrackingCodeAllocator.
func NewTrackingCode() TrackingCode {
	return TrackingCode{
		id: uuid.New(),
	}
}

// TrackingCodeFromString parses the canonical string form of a tracking code.
// Braced and urn-prefixed UUID forms are accepted. The nil UUID is rejected.
func TrackingCodeFromString(s string) (TrackingCode, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("invalid UUID format: %w", err),
		)
	}

	code := TrackingCode{id: id}
	if err = code.Validate(); err != nil {
		return TrackingCode{}, err
	}

	return code, nil
}

// TrackingCodeFromBytes rebuilds a tracking code from its 16 raw bytes,
// typically when reading it back from the uuid column of the store.
func TrackingCodeFromBytes(b []byte) (TrackingCode, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("invalid UUID format: %w", err),
		)
	}

	code := TrackingCode{id: id}
	if err = code.Validate(); err != nil {
		return TrackingCode{}, err
	}

	return code, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
// It is also the cache key of the post.
func (c TrackingCode) String() string {
	return c.id.String()
}

// Bytes returns the underlying uuid.UUID.
func (c TrackingCode) Bytes() uuid.UUID {
	return c.id
}

// IsEqual reports whether both codes hold the same value.
func (c TrackingCode) IsEqual(other TrackingCode) bool {
	return c.id == other.id
}

// Validate returns ErrTrackingCodeIsNotConstructed for the zero value.
func (c TrackingCode) Validate() error {
	if c.id == uuid.Nil {
		return ErrTrackingCodeIsNotConstructed
	}
	return nil
}
