package server

import (
	"context"
	"net/http"
	"time"

	"servicebooking/internal/config"
	"servicebooking/internal/domain"
	"servicebooking/internal/middleware"
	"servicebooking/internal/modules/admin"
	"servicebooking/internal/modules/auth"
	"servicebooking/internal/modules/booking"
	"servicebooking/internal/modules/catalog"
	"servicebooking/internal/modules/payment"
	"servicebooking/internal/pkg/jwt"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/metrics"
	"servicebooking/internal/repository"
	"servicebooking/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions auth.SessionStore
	Log      *logger.Logger
	Metrics  *metrics.Metrics
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	loc := cfg.Location()

	tmpl, err := web.Templates(cfg.App.Name, loc)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	serviceRepo := repository.NewServiceRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)

	// Services
	jwtService := jwt.New(cfg.Session.JWTSecret, cfg.Session.TTL)
	authService := auth.NewService(userRepo, d.Sessions, jwtService)
	catalogService := catalog.NewService(serviceRepo)
	bookingService := booking.NewService(bookingRepo, serviceRepo, loc)
	paymentService := payment.NewService(bookingService)
	adminService := admin.NewService(serviceRepo, bookingRepo, loc)

	// Handlers
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL,
	}, d.Metrics, d.Log)
	catalogHandler := catalog.NewHandler(catalogService, d.Log)
	bookingHandler := booking.NewHandler(bookingService, d.Metrics, d.Log)
	paymentHandler := payment.NewHandler(paymentService, d.Metrics, d.Log)
	adminHandler := admin.NewHandler(adminService, d.Log)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	r.Use(web.FlashSessions([]byte(cfg.Session.JWTSecret), cfg.Session.CookieSecure))
	r.Use(middleware.SessionAuth(authService, cfg.Session.CookieName))

	r.GET("/healthz", healthz(d.DB))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// Public pages
	catalogHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)

	// JSON endpoint; answers wrong methods and anonymous callers itself
	paymentHandler.RegisterAPIRoutes(r)

	// Customer pages
	customer := r.Group("", middleware.RequireRole(domain.RoleCustomer))
	{
		bookingHandler.RegisterRoutes(customer)
		paymentHandler.RegisterPageRoutes(customer)
	}

	// Admin
	adminPages := r.Group("", middleware.RequireRole(domain.RoleAdmin))
	adminHandler.RegisterPageRoutes(adminPages)

	adminAPI := r.Group("/admin/api", middleware.AdminOnly())
	{
		adminHandler.RegisterAPIRoutes(adminAPI)
		catalogHandler.RegisterAdminRoutes(adminAPI)
		bookingHandler.RegisterAdminRoutes(adminAPI)
	}

	r.NoRoute(func(c *gin.Context) {
		web.RenderError(c, http.StatusNotFound, "Page not found.")
	})

	return r, nil
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
