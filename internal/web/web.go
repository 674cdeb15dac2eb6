package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// DateTimeLocalLayout is the value format of an <input type="datetime-local">.
const DateTimeLocalLayout = "2006-01-02T15:04"

// Templates parses every page template. Times are shown in loc.
func Templates(appName string, loc *time.Location) (*template.Template, error) {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"appName": func() string { return appName },
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"datetime": func(t time.Time) string {
			return t.In(loc).Format("Jan 2, 2006 15:04")
		},
		"datetimeLocal": func(t time.Time) string {
			return t.In(loc).Format(DateTimeLocalLayout)
		},
		"statusClass": statusClass,
		"canCancel": func(s domain.BookingStatus) bool {
			return domain.CanTransition(s, domain.BookingCancelled) && s != domain.BookingCancelled
		},
		"canPay": func(s domain.BookingStatus) bool {
			return s.IsOpen()
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func statusClass(s domain.BookingStatus) string {
	switch s {
	case domain.BookingApproved:
		return "status-approved"
	case domain.BookingCompleted:
		return "status-completed"
	case domain.BookingDeclined, domain.BookingCancelled:
		return "status-closed"
	default:
		return "status-pending"
	}
}

// CurrentUser is what every page knows about the visitor.
type CurrentUser struct {
	ID            int64
	Username      string
	Role          domain.UserRole
	Authenticated bool
}

func (u CurrentUser) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// Render writes a page with the shared layout data filled in.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = CurrentUser{
		ID:            middleware.UserID(c),
		Username:      c.GetString(middleware.CtxUsername),
		Role:          middleware.Role(c),
		Authenticated: middleware.IsAuthenticated(c),
	}
	data["Flashes"] = PopFlashes(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

// RenderError shows the error page with a short message.
func RenderError(c *gin.Context, status int, message string) {
	Render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}
