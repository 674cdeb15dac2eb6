package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/middleware"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/metrics"
	"servicebooking/internal/pkg/validator"
	"servicebooking/internal/web"

	"github.com/gin-gonic/gin"
)

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookie  CookieConfig
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewHandler(service *Service, cookie CookieConfig, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		cookie:  cookie,
		metrics: m,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	web.Render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   RegisterRequest{},
		"Errors": validator.FieldErrors{},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRegister(c, req, validator.FieldErrors{"_": "Invalid form submission."})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		var fieldErrs validator.FieldErrors
		if errors.As(err, &fieldErrs) {
			h.renderRegister(c, req, fieldErrs)
			return
		}
		h.log.Error().Err(err).Msg("register failed")
		web.RenderError(c, http.StatusInternalServerError, "Could not create the account, please try again.")
		return
	}

	h.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	web.SetFlash(c, web.FlashSuccess, "Account created successfully! You can now log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) renderRegister(c *gin.Context, req RegisterRequest, errs validator.FieldErrors) {
	// never echo passwords back
	req.Password1, req.Password2 = "", ""
	web.Render(c, http.StatusBadRequest, "register.html", gin.H{
		"Title":  "Register",
		"Form":   req,
		"Errors": errs,
	})
}

func (h *Handler) LoginPage(c *gin.Context) {
	web.Render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Next":  safeNext(c.Query("next")),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	_ = c.ShouldBind(&req)
	next := safeNext(req.Next)

	res, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("login failed")
		}
		h.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		web.Render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":    "Log in",
			"Next":     next,
			"Username": req.Username,
			"Error":    msgLoginFailed,
		})
		return
	}

	h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.setSessionCookie(c, res.Token, int(h.cookie.TTL.Seconds()))

	if next == "" {
		next = "/dashboard"
		if res.User.Role == domain.RoleAdmin {
			next = "/admin"
		}
	}
	c.Redirect(http.StatusFound, next)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.log.Error().Err(err).Msg("logout failed")
	}
	h.setSessionCookie(c, "", -1)
	web.SetFlash(c, web.FlashInfo, "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// safeNext only allows local absolute paths as redirect targets.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
