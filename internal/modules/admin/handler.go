package admin

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/response"
	"servicebooking/internal/web"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPageRoutes wires the admin dashboard; r must already be admin-guarded.
func (h *Handler) RegisterPageRoutes(r gin.IRouter) {
	r.GET("/admin", h.Dashboard)
}

// RegisterAPIRoutes wires the admin JSON API; rg must already be admin-guarded.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/export", h.ExportBookings)
}

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var q BookingListQuery
	_ = c.ShouldBindQuery(&q)

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.pageError(c, err)
		return
	}

	page, err := h.service.ListBookings(ctx, q)
	if errors.Is(err, ErrInvalidFilter) {
		web.SetFlash(c, web.FlashError, "Invalid filter, showing all bookings.")
		q = BookingListQuery{}
		page, err = h.service.ListBookings(ctx, q)
	}
	if err != nil {
		h.pageError(c, err)
		return
	}

	services, err := h.service.ListServices(ctx)
	if err != nil {
		h.pageError(c, err)
		return
	}

	web.Render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Title":        "Admin dashboard",
		"Stats":        stats,
		"Bookings":     page.Bookings,
		"Services":     services,
		"Filter":       q,
		"Statuses":     domain.AllBookingStatuses,
		"BulkStatuses": domain.AdminBulkStatuses,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) ListBookings(c *gin.Context) {
	var q BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	page, err := h.service.ListBookings(c.Request.Context(), q)
	if err != nil {
		h.apiError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) ExportBookings(c *gin.Context) {
	var q BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	var buf bytes.Buffer
	n, err := h.service.ExportBookings(c.Request.Context(), q, &buf)
	if err != nil {
		h.apiError(c, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	h.log.Info().Int("rows", n).Str("file", filename).Msg("bookings exported")

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) apiError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidFilter) {
		h.log.Warn().Err(err).Str("query", c.Request.URL.RawQuery).Msg("invalid booking filter")
		response.Error(c, http.StatusBadRequest, "INVALID_FILTER", "Invalid filter")
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("admin request failed")
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func (h *Handler) pageError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("admin page failed")
	web.RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again.")
}
