package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// BookingRef accepts a booking id sent either as a JSON number or as a
// numeric string.
type BookingRef int64

func (r *BookingRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errors.New("booking id must be an integer")
	}
	*r = BookingRef(id)
	return nil
}

// ConfirmPaymentRequest is the body of POST /confirm_payment.
// booking_id is the older field name and is still honoured.
type ConfirmPaymentRequest struct {
	BookingID       BookingRef `json:"bookingId"`
	LegacyBookingID BookingRef `json:"booking_id"`
}

func (r ConfirmPaymentRequest) ID() int64 {
	if r.BookingID > 0 {
		return int64(r.BookingID)
	}
	return int64(r.LegacyBookingID)
}

const (
	statusSuccess = "success"
	statusError   = "error"
)
