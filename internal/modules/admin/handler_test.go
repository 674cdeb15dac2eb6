package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"servicebooking/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestListBookingsHandler_InvalidFilterHidesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(new(MockServiceRepository), new(MockBookingRepository), time.UTC), logger.Nop())
	r := gin.New()
	h.RegisterAPIRoutes(r.Group("/admin/api"))

	for _, target := range []string{
		"/admin/api/bookings?from=not-a-date",
		"/admin/api/bookings?status=Archived",
		"/admin/api/bookings/export?to=31.12.2030",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.JSONEq(t, `{"success":false,"error":{"code":"INVALID_FILTER","message":"Invalid filter"}}`, w.Body.String(), target)
		assert.NotContains(t, w.Body.String(), "parsing time", target)
	}
}
