package services

import (
	"math"

	"posttracker/internal/core/domain/model/kernel"
)

const (
	// BaseFee is charged for every post.
	BaseFee = 20.0

	// WeightThreshold is the weight in kg up to which no weight surcharge applies.
	WeightThreshold = 5.0

	// WeightRate is charged per kg above WeightThreshold, prorated.
	WeightRate = 2.0

	// VolumeThreshold is the volume in cm³ up to which no volume surcharge applies.
	VolumeThreshold = 3000.0

	// VolumeStep is the size of each full block of excess volume charged VolumeStepFee.
	VolumeStep = 500.0

	// VolumeStepFee is charged per full VolumeStep above VolumeThreshold.
	VolumeStepFee = 1.0
)

// FeeCalculator prices a parcel. It holds no state and has no side effects.
//
// Pricing:
//
//	fee = BaseFee
//	    + (weight - WeightThreshold) * WeightRate           if weight > WeightThreshold
//	    + floor((volume - VolumeThreshold) / VolumeStep)    if volume > VolumeThreshold
//
// The result is rounded to two decimals.
type FeeCalculator struct{}

// NewFeeCalculator creates a FeeCalculator.
func NewFeeCalculator() FeeCalculator {
	return FeeCalculator{}
}

// Calculate returns the volume and fee for parcel.
//
// Returns:
//   - kernel.Quote: volume equal to parcel.Volume() and the computed fee
//   - error: kernel.ErrParcelIsNotConstructed for a zero-value parcel
func (FeeCalculator) Calculate(parcel kernel.Parcel) (kernel.Quote, error) {
	if err := parcel.Validate(); err != nil {
		return kernel.Quote{}, err
	}

	volume := parcel.Volume()
	fee := BaseFee

	if weight := parcel.Weight(); weight > WeightThreshold {
		fee += (weight - WeightThreshold) * WeightRate
	}

	if volume > VolumeThreshold {
		fee += math.Floor((volume-VolumeThreshold)/VolumeStep) * VolumeStepFee
	}

	return kernel.NewQuote(volume, fee)
}
