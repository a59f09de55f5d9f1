package post_test

import (
	"testing"

	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		input    string
		expected post.Status
	}{
		{"CREATED", post.Created},
		{"in_transit", post.InTransit},
		{" Delivered ", post.Delivered},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			status, err := post.ParseStatus(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}

	t.Run("should reject unknown values", func(t *testing.T) {
		for _, input := range []string{"", "UNKNOWN", "SHIPPED", "IN TRANSIT"} {
			status, err := post.ParseStatus(input)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Equal(t, post.Unknown, status)
		}
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "CREATED", post.Created.String())
	assert.Equal(t, "IN_TRANSIT", post.InTransit.String())
	assert.Equal(t, "DELIVERED", post.Delivered.String())
	assert.Equal(t, "UNKNOWN", post.Unknown.String())
	assert.Equal(t, "UNKNOWN", post.Status(42).String())
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, post.Created.Validate())
	require.NoError(t, post.InTransit.Validate())
	require.NoError(t, post.Delivered.Validate())
	require.ErrorIs(t, post.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, post.Status(-1).Validate(), errs.ErrValueIsInvalid)
}

func TestStatus_TransitionTo(t *testing.T) {
	testCases := []struct {
		from      post.Status
		to        post.Status
		allowed   bool
		stamp     post.Stamp
		rejection error
	}{
		{post.Created, post.Created, false, 0, post.ErrBackToCreated},
		{post.Created, post.InTransit, true, post.DispatchStamp, nil},
		{post.Created, post.Delivered, false, 0, post.ErrSkippedTransit},
		{post.InTransit, post.Created, false, 0, post.ErrBackToCreated},
		{post.InTransit, post.InTransit, false, 0, post.ErrSameStatus},
		{post.InTransit, post.Delivered, true, post.DeliveryStamp, nil},
		{post.Delivered, post.Created, false, 0, post.ErrBackToCreated},
		{post.Delivered, post.InTransit, false, 0, post.ErrAlreadyDelivered},
		{post.Delivered, post.Delivered, false, 0, post.ErrSameStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			tr, err := tc.from.TransitionTo(tc.to)

			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.from, tr.From)
				assert.Equal(t, tc.to, tr.To)
				assert.Equal(t, tc.stamp, tr.Stamp)
				return
			}

			require.ErrorIs(t, err, errs.ErrConflict)
			assert.Contains(t, err.Error(), tc.rejection.Error())
			assert.Equal(t, post.Transition{}, tr)
		})
	}

	t.Run("should reject invalid statuses as invalid values", func(t *testing.T) {
		_, err := post.Unknown.TransitionTo(post.InTransit)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = post.Created.TransitionTo(post.Status(9))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
