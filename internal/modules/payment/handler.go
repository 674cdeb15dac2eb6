package payment

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"servicebooking/internal/middleware"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/metrics"
	"servicebooking/internal/pkg/response"
	"servicebooking/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewHandler(service *Service, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{service: service, metrics: m, log: log}
}

// RegisterPageRoutes wires the payment simulator page; r must already be customer-guarded.
func (h *Handler) RegisterPageRoutes(r gin.IRouter) {
	r.GET("/pay/:bookingId", h.PaymentPage)
}

// RegisterAPIRoutes wires the confirmation endpoint. It answers every method
// itself so wrong methods and missing sessions get the JSON envelope.
func (h *Handler) RegisterAPIRoutes(r gin.IRouter) {
	r.Any("/confirm_payment", h.ConfirmPayment)
}

func (h *Handler) PaymentPage(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID <= 0 {
		web.RenderError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	b, err := h.service.PaymentPage(c.Request.Context(), middleware.UserID(c), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			web.RenderError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		h.log.Error().Err(err).Int64("booking_id", bookingID).Msg("load payment page")
		web.RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again.")
		return
	}

	web.Render(c, http.StatusOK, "pay.html", gin.H{
		"Title":   "Payment",
		"Booking": b,
	})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.fail(c, ErrMethodNotAllowed)
		return
	}
	if !middleware.IsAuthenticated(c) {
		h.fail(c, ErrUnauthenticated)
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, ErrInvalidRequest)
		return
	}

	b, changed, err := h.service.ConfirmPayment(c.Request.Context(), middleware.UserID(c), req.ID())
	if err != nil {
		reply := replyFor(err)
		if reply == replyFailed {
			h.log.Error().Err(err).Int64("booking_id", req.ID()).Msg("confirm payment failed")
		}
		h.fail(c, err)
		return
	}

	if changed {
		h.metrics.PaymentsConfirmed.Inc()
		h.log.Info().Int64("booking_id", b.ID).Int64("customer_id", b.CustomerID).Msg("payment confirmed")
	}
	web.SetFlash(c, web.FlashSuccess, fmt.Sprintf("Booking #%d has been successfully paid for and confirmed.", b.ID))
	response.Status(c, http.StatusOK, statusSuccess, msgPaymentConfirmed)
}

func (h *Handler) fail(c *gin.Context, err error) {
	reply := replyFor(err)
	if reply.status == http.StatusMethodNotAllowed {
		c.Header("Allow", http.MethodPost)
	}
	response.Status(c, reply.status, statusError, reply.message)
}
