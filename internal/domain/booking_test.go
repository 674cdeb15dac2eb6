package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingApproved, true},
		{BookingPending, BookingDeclined, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, true},
		{BookingApproved, BookingCompleted, true},
		{BookingApproved, BookingCancelled, true},
		{BookingApproved, BookingDeclined, false},
		{BookingApproved, BookingPending, false},
		{BookingDeclined, BookingCompleted, false},
		{BookingCancelled, BookingApproved, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCompleted, BookingCompleted, true},
		{BookingDeclined, BookingDeclined, true},
		{BookingStatus("Lost"), BookingStatus("Lost"), false},
		{BookingStatus("Lost"), BookingApproved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatus_OpenClosed(t *testing.T) {
	for _, s := range OpenStatuses {
		assert.True(t, s.IsOpen())
		assert.False(t, s.IsClosed())
	}
	for _, s := range ClosedStatuses {
		assert.True(t, s.IsClosed())
		assert.False(t, s.IsOpen())
	}
}
