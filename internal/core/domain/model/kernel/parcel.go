package kernel

import (
	"errors"
	"fmt"
	"math"

	"posttracker/internal/pkg/errs"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel was not built with NewParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel constructor")

	// ErrQuoteIsNotConstructed is returned when a Quote was not built with NewQuote.
	ErrQuoteIsNotConstructed = errors.New("Quote must be created via NewQuote constructor")
)

// Dimensions holds the height, width and length of a parcel in centimetres.
// Every side is strictly positive and rounded to two decimal places.
type Dimensions struct {
	height float64
	width  float64
	length float64
}

// NewDimensions rounds the three sides of a parcel and validates the rounded
// values, including the volume they span. All invalid sides are reported
// together.
func NewDimensions(height, width, length float64) (Dimensions, error) {
	h, heightErr := roundPositive("height", height)
	w, widthErr := roundPositive("width", width)
	l, lengthErr := roundPositive("length", length)
	if err := errors.Join(heightErr, widthErr, lengthErr); err != nil {
		return Dimensions{}, err
	}

	d := Dimensions{height: h, width: w, length: l}
	if d.Volume() <= 0 {
		return Dimensions{}, errs.NewValueIsInvalidErrorWithCause(
			"volume", fmt.Errorf("%v x %v x %v rounds to 0", h, w, l),
		)
	}
	return d, nil
}

// Height returns the height in centimetres.
func (d Dimensions) Height() float64 { return d.height }

// Width returns the width in centimetres.
func (d Dimensions) Width() float64 { return d.width }

// Length returns the length in centimetres.
func (d Dimensions) Length() float64 { return d.length }

// Volume returns height × width × length in cubic centimetres, rounded to two decimals.
func (d Dimensions) Volume() float64 {
	return Round2(d.height * d.width * d.length)
}

// Parcel is the physical description of a shipment: its weight in kilograms
// and its dimensions. The zero value is invalid.
type Parcel struct {
	weight        float64
	dimensions    Dimensions
	isConstructed bool
}

// NewParcel validates weight and dimensions. Weight is rounded to two decimals.
//
// Example:
//
//	parcel, err := kernel.NewParcel(6.8, 10, 5, 10)
//	// parcel.Volume() == 500
func NewParcel(weight, height, width, length float64) (Parcel, error) {
	w, weightErr := roundPositive("weight", weight)
	dimensions, dimErr := NewDimensions(height, width, length)

	if err := errors.Join(weightErr, dimErr); err != nil {
		return Parcel{}, err
	}

	return Parcel{
		weight:        w,
		dimensions:    dimensions,
		isConstructed: true,
	}, nil
}

// Validate returns ErrParcelIsNotConstructed for the zero value.
func (p Parcel) Validate() error {
	if !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// Weight returns the weight in kilograms.
func (p Parcel) Weight() float64 { return p.weight }

// Dimensions returns the parcel sides.
func (p Parcel) Dimensions() Dimensions { return p.dimensions }

// Volume returns the parcel volume in cubic centimetres.
func (p Parcel) Volume() float64 { return p.dimensions.Volume() }

// Quote is the result of pricing a parcel: the volume it occupies and the
// shipping fee charged for it, both rounded to two decimals.
type Quote struct {
	volume        float64
	fee           float64
	isConstructed bool
}

// NewQuote builds a quote. Volume must be positive and the fee non-negative.
func NewQuote(volume, fee float64) (Quote, error) {
	v, err := roundPositive("volume", volume)
	if err != nil {
		return Quote{}, err
	}
	if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
		return Quote{}, errs.NewValueIsInvalidErrorWithCause(
			"fee", fmt.Errorf("%v is negative or not a number", fee),
		)
	}

	return Quote{
		volume:        v,
		fee:           Round2(fee),
		isConstructed: true,
	}, nil
}

// Validate returns ErrQuoteIsNotConstructed for the zero value.
func (q Quote) Validate() error {
	if !q.isConstructed {
		return ErrQuoteIsNotConstructed
	}
	return nil
}

// Volume returns the priced volume in cubic centimetres.
func (q Quote) Volume() float64 { return q.volume }

// Fee returns the shipping fee in currency units.
func (q Quote) Fee() float64 { return q.fee }

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundPositive rounds v and requires the rounded value to stay above zero.
func roundPositive(name string, v float64) (float64, error) {
	if err := requirePositive(name, v); err != nil {
		return 0, err
	}
	rounded := Round2(v)
	if rounded <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v rounds to 0", v))
	}
	return rounded, nil
}

func requirePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is not greater than 0", v))
	}
	return nil
}
