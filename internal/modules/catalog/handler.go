package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/response"
	"servicebooking/internal/pkg/validator"
	"servicebooking/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes wires the public catalog pages.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/services", h.ListServices)
}

// RegisterAdminRoutes wires the service management API; rg must already be admin-guarded.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/services")
	{
		services.GET("", h.SearchServices)
		services.POST("", h.CreateService)
		services.GET("/:id", h.GetService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
}

func (h *Handler) Home(c *gin.Context) {
	services, err := h.service.FeaturedServices(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("load featured services")
		web.RenderError(c, http.StatusInternalServerError, "Could not load services.")
		return
	}
	web.Render(c, http.StatusOK, "home.html", gin.H{"Services": services})
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("load services")
		web.RenderError(c, http.StatusInternalServerError, "Could not load services.")
		return
	}
	web.Render(c, http.StatusOK, "services.html", gin.H{
		"Title":    "Services",
		"Services": services,
	})
}

func (h *Handler) SearchServices(c *gin.Context) {
	services, err := h.service.SearchServices(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().Int64("service_id", svc.ID).Str("name", svc.Name).Msg("service created")
	response.Success(c, http.StatusCreated, gin.H{"service": svc})
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	removed, err := h.service.DeleteService(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().Int64("service_id", id).Int64("bookings_removed", removed).Msg("service deleted")
	response.Success(c, http.StatusOK, DeleteServiceResponse{ID: id, BookingsRemoved: removed})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var fieldErrs validator.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service", fieldErrs)
	case errors.Is(err, ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("catalog request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return 0, false
	}
	return id, true
}
