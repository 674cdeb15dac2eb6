package payment

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest    = errors.New("invalid payment request")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPaymentNotAllowed = errors.New("booking cannot be paid")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrMethodNotAllowed  = errors.New("method not allowed")
)

type errorReply struct {
	status  int
	message string
}

// replies maps each failure kind to its fixed client answer. Anything not
// listed is answered with replyFailed.
var replies = map[error]errorReply{
	ErrMethodNotAllowed:  {http.StatusMethodNotAllowed, "Invalid request method."},
	ErrUnauthenticated:   {http.StatusUnauthorized, "Authentication required."},
	ErrInvalidRequest:    {http.StatusBadRequest, "Invalid request body."},
	ErrBookingNotFound:   {http.StatusNotFound, "Booking not found."},
	ErrPaymentNotAllowed: {http.StatusConflict, "This booking can no longer be paid."},
}

var replyFailed = errorReply{http.StatusBadRequest, "Payment could not be processed."}

const msgPaymentConfirmed = "Payment confirmed successfully."

func replyFor(err error) errorReply {
	for kind, reply := range replies {
		if errors.Is(err, kind) {
			return reply
		}
	}
	return replyFailed
}
