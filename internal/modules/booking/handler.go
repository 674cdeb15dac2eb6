package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"servicebooking/internal/middleware"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/metrics"
	"servicebooking/internal/pkg/response"
	"servicebooking/internal/pkg/validator"
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

// RegisterRoutes wires the customer pages; r must already be customer-guarded.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/book/:serviceId", h.BookPage)
	r.POST("/book/:serviceId", h.CreateBooking)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/history", h.History)
	r.POST("/bookings/:bookingId/cancel", h.CancelBooking)
}

// RegisterAdminRoutes wires the bulk status action; rg must already be admin-guarded.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/status", h.BulkSetStatus)
}

func (h *Handler) BookPage(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}

	svc, err := h.service.GetService(c.Request.Context(), serviceID)
	if err != nil {
		h.renderPageError(c, err)
		return
	}

	web.Render(c, http.StatusOK, "book.html", gin.H{
		"Title":       "Book " + svc.Name,
		"Service":     svc,
		"Form":        BookingForm{},
		"Errors":      validator.FieldErrors{},
		"MinDateTime": h.service.Now().In(h.service.Location()).Format(web.DateTimeLocalLayout),
	})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	serviceID, ok := pathID(c, "serviceId")
	if !ok {
		return
	}

	var form BookingForm
	_ = c.ShouldBind(&form)

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.UserID(c), serviceID, form)
	if err != nil {
		var fieldErrs validator.FieldErrors
		if !errors.As(err, &fieldErrs) {
			h.renderPageError(c, err)
			return
		}

		svc, svcErr := h.service.GetService(c.Request.Context(), serviceID)
		if svcErr != nil {
			h.renderPageError(c, svcErr)
			return
		}
		web.Render(c, http.StatusBadRequest, "book.html", gin.H{
			"Title":       "Book " + svc.Name,
			"Service":     svc,
			"Form":        form,
			"Errors":      fieldErrs,
			"MinDateTime": h.service.Now().In(h.service.Location()).Format(web.DateTimeLocalLayout),
		})
		return
	}

	h.metrics.BookingsCreated.Inc()
	h.log.Info().
		Int64("booking_id", b.ID).
		Int64("customer_id", b.CustomerID).
		Int64("service_id", b.ServiceID).
		Time("booking_date_time", b.BookingDateTime).
		Msg("booking created")

	web.SetFlash(c, web.FlashSuccess, "Your booking request has been submitted successfully!")
	c.Redirect(http.StatusFound, fmt.Sprintf("/pay/%d", b.ID))
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.renderPageError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title":    "Dashboard",
		"Upcoming": d.Upcoming,
		"Past":     d.Past,
		"Missed":   d.Missed,
	})
}

func (h *Handler) History(c *gin.Context) {
	bookings, err := h.service.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.renderPageError(c, err)
		return
	}
	web.Render(c, http.StatusOK, "history.html", gin.H{
		"Title":    "Booking history",
		"Bookings": bookings,
	})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	_, err := h.service.CancelBooking(c.Request.Context(), middleware.UserID(c), bookingID)
	switch {
	case err == nil:
		web.SetFlash(c, web.FlashSuccess, fmt.Sprintf("Booking #%d has been cancelled.", bookingID))
	case errors.Is(err, ErrInvalidStatusTransition), errors.Is(err, ErrConcurrentUpdate):
		web.SetFlash(c, web.FlashError, fmt.Sprintf("Booking #%d can no longer be cancelled.", bookingID))
	default:
		h.renderPageError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) BulkSetStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.BulkSetStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of Approved, Declined, Completed")
			return
		}
		h.log.Error().Err(err).Msg("bulk status update failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update bookings")
		return
	}

	h.metrics.StatusChanges.WithLabelValues(string(res.Status)).Add(float64(len(res.Updated)))
	h.log.Info().
		Str("status", string(res.Status)).
		Ints64("updated", res.Updated).
		Ints64("skipped", res.Skipped).
		Ints64("missing", res.Missing).
		Int64("admin_id", middleware.UserID(c)).
		Msg("bulk status update")

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) renderPageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		web.RenderError(c, http.StatusNotFound, "Service not found.")
	case errors.Is(err, ErrBookingNotFound):
		web.RenderError(c, http.StatusNotFound, "Booking not found.")
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("booking request failed")
		web.RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again.")
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		web.RenderError(c, http.StatusNotFound, "Page not found.")
		return 0, false
	}
	return id, true
}
