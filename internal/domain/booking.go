package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingApproved  BookingStatus = "Approved"
	BookingDeclined  BookingStatus = "Declined"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

var AllBookingStatuses = []BookingStatus{
	BookingPending,
	BookingApproved,
	BookingDeclined,
	BookingCompleted,
	BookingCancelled,
}

// OpenStatuses are bookings still waiting to happen.
var OpenStatuses = []BookingStatus{BookingPending, BookingApproved}

// ClosedStatuses are the terminal outcomes.
var ClosedStatuses = []BookingStatus{BookingCompleted, BookingDeclined, BookingCancelled}

// AdminBulkStatuses are the targets offered by the admin bulk action.
var AdminBulkStatuses = []BookingStatus{BookingApproved, BookingDeclined, BookingCompleted}

var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending: {
		BookingApproved:  true,
		BookingDeclined:  true,
		BookingCancelled: true,
		BookingCompleted: true, // paying a fresh booking completes it
	},
	BookingApproved: {
		BookingCompleted: true,
		BookingCancelled: true,
	},
	BookingDeclined:  {},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s BookingStatus) IsOpen() bool {
	return s == BookingPending || s == BookingApproved
}

func (s BookingStatus) IsClosed() bool {
	return s == BookingCompleted || s == BookingDeclined || s == BookingCancelled
}

// CanTransition reports whether a booking in status from may move to status to.
// Staying in the same status is always allowed and is a no-op.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return from.Valid()
	}
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// Booking holds a snapshot of the contact data given at booking time,
// independent of the customer's profile.
type Booking struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customer_id"`
	ServiceID       int64         `json:"service_id"`
	Name            string        `json:"name"`
	ContactNumber   string        `json:"contact_number"`
	Address         string        `json:"address"`
	BookingDateTime time.Time     `json:"booking_date_time"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Customer *User    `json:"customer,omitempty"`
	Service  *Service `json:"service,omitempty"`
}
