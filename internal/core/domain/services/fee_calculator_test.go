package services_test

import (
	"testing"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeCalculator_Calculate(t *testing.T) {
	calculator := services.NewFeeCalculator()

	testCases := []struct {
		name                          string
		weight, height, width, length float64
		volume                        float64
		fee                           float64
	}{
		{"below both thresholds", 1, 10, 10, 10, 1000, 20},
		{"exactly at both thresholds", 5, 10, 10, 30, 3000, 20},
		{"weight surcharge only", 6.8, 10, 5, 10, 500, 23.6},
		{"partial volume step is free", 2, 10, 10, 34.99, 3499, 20},
		{"one full volume step", 2, 10, 10, 35, 3500, 21},
		{"several volume steps", 2, 20, 20, 20, 8000, 30},
		{"both surcharges", 10, 20, 20, 20, 8000, 40},
		{"fractional weight surcharge", 5.01, 1, 1, 1, 1, 20.02},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parcel, err := kernel.NewParcel(tc.weight, tc.height, tc.width, tc.length)
			require.NoError(t, err)

			quote, err := calculator.Calculate(parcel)

			require.NoError(t, err)
			assert.InDelta(t, tc.volume, quote.Volume(), 1e-9)
			assert.InDelta(t, tc.fee, quote.Fee(), 1e-9)
		})
	}

	t.Run("should return volume equal to parcel volume", func(t *testing.T) {
		parcel, _ := kernel.NewParcel(3, 12.5, 7.3, 9.9)

		quote, err := calculator.Calculate(parcel)

		require.NoError(t, err)
		assert.InDelta(t, parcel.Volume(), quote.Volume(), 1e-9)
	})

	t.Run("should reject zero value parcel", func(t *testing.T) {
		quote, err := calculator.Calculate(kernel.Parcel{})

		require.ErrorIs(t, err, kernel.ErrParcelIsNotConstructed)
		assert.Equal(t, kernel.Quote{}, quote)
	})
}
