package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/metrics"
	"servicebooking/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const cookieName = "session"

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test", Name: "Service Booking", Timezone: "UTC"},
		Session: config.SessionConfig{JWTSecret: "test-secret", TTL: time.Hour, CookieName: cookieName, Store: config.SessionStoreDB},
	}

	engine, err := NewRouter(Deps{
		Config:   cfg,
		DB:       db,
		Sessions: repository.NewSessionRepository(db),
		Log:      logger.Nop(),
		Metrics:  metrics.New(),
	})
	require.NoError(t, err)

	return &testApp{t: t, engine: engine, db: db}
}

// client keeps cookies between requests like a browser would.
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.app.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(c.app.t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (a *testApp) register(username string) {
	a.t.Helper()
	w := a.client().postForm("/register", url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"password1": {"blue-Harbor-42"},
		"password2": {"blue-Harbor-42"},
	})
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(a.t, "/login", w.Header().Get("Location"))
}

func (a *testApp) seedAdmin() {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-Secret-9"), bcrypt.MinCost)
	require.NoError(a.t, err)
	require.NoError(a.t, repository.NewUserRepository(a.db).Create(context.Background(), &domain.User{
		Username: "admin", Email: "admin@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin,
	}))
}

func (a *testApp) login(username, password string) *client {
	a.t.Helper()
	c := a.client()
	w := c.postForm("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	require.Contains(a.t, c.cookies, cookieName)
	return c
}

func futureSlot(d time.Duration) string {
	return time.Now().UTC().Add(d).Format("2006-01-02T15:04")
}

func bookingForm(at string) url.Values {
	return url.Values{
		"booking_date_time": {at},
		"name":              {"Full Name"},
		"contact_number":    {"5550100"},
		"address":           {"1 Main St"},
	}
}

func bookingIDFromLocation(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	var id int64
	_, err := fmt.Sscanf(w.Header().Get("Location"), "/pay/%d", &id)
	require.NoError(t, err)
	return id
}

func (a *testApp) bookingStatus(id int64) domain.BookingStatus {
	a.t.Helper()
	b, err := repository.NewBookingRepository(a.db).GetByID(context.Background(), id)
	require.NoError(a.t, err)
	return b.Status
}

func TestScenario_BookPayDeclineDelete(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin()
	app.register("alice")
	app.register("bob")

	// duplicate username is rejected with a field error
	w := app.client().postForm("/register", url.Values{
		"username": {"alice"}, "email": {"other@example.com"},
		"password1": {"blue-Harbor-42"}, "password2": {"blue-Harbor-42"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "A user with that username already exists.")

	admin := app.login("admin", "admin-Secret-9")
	w = admin.sendJSON(http.MethodPost, "/admin/api/services", map[string]any{
		"name": "Haircut", "description": "Wash and cut", "price": "20.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			Service domain.Service `json:"service"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	serviceID := created.Data.Service.ID
	require.NotZero(t, serviceID)

	alice := app.login("alice", "blue-Harbor-42")
	bob := app.login("bob", "blue-Harbor-42")

	// landing and catalog show the service
	w = alice.get("/services")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Haircut")
	assert.Contains(t, w.Body.String(), "20.00")

	// a past slot re-renders the form and writes nothing
	bookPath := fmt.Sprintf("/book/%d", serviceID)
	w = alice.postForm(bookPath, bookingForm(time.Now().UTC().Add(-time.Hour).Format("2006-01-02T15:04")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "The booking date and time must be in the future.")
	total, err := repository.NewBookingRepository(app.db).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)

	aliceBooking := bookingIDFromLocation(t, alice.postForm(bookPath, bookingForm(futureSlot(48*time.Hour))))
	assert.Equal(t, domain.BookingPending, app.bookingStatus(aliceBooking))

	w = alice.get(fmt.Sprintf("/pay/%d", aliceBooking))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your booking request has been submitted successfully!")

	// bob cannot see or pay for alice's booking
	assert.Equal(t, http.StatusNotFound, bob.get(fmt.Sprintf("/pay/%d", aliceBooking)).Code)
	w = bob.sendJSON(http.MethodPost, "/confirm_payment", map[string]any{"bookingId": aliceBooking})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.BookingPending, app.bookingStatus(aliceBooking))

	// alice pays, twice
	for i := 0; i < 2; i++ {
		w = alice.sendJSON(http.MethodPost, "/confirm_payment", map[string]any{"bookingId": aliceBooking})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"Payment confirmed successfully."}`, w.Body.String())
		assert.Equal(t, domain.BookingCompleted, app.bookingStatus(aliceBooking))
	}

	// bob books, admin declines
	bobBooking := bookingIDFromLocation(t, bob.postForm(bookPath, bookingForm(futureSlot(72*time.Hour))))
	w = admin.sendJSON(http.MethodPost, "/admin/api/bookings/status", map[string]any{
		"ids": []int64{bobBooking, aliceBooking}, "status": "Declined",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"updated":[%d]`, bobBooking))
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"skipped":[%d]`, aliceBooking))
	assert.Equal(t, domain.BookingDeclined, app.bookingStatus(bobBooking))

	// a declined future booking shows in neither dashboard list but in history
	w = bob.get("/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Declined")
	w = bob.get("/history")
	assert.Contains(t, w.Body.String(), "Declined")

	// admin filters and stats
	w = admin.get("/admin/api/bookings?status=Declined&q=bob")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	w = admin.get("/admin/api/stats")
	assert.Contains(t, w.Body.String(), `"bookings":2`)

	w = admin.get("/admin/api/bookings/export")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))

	// deleting the service removes its bookings
	w = admin.sendJSON(http.MethodDelete, fmt.Sprintf("/admin/api/services/%d", serviceID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"bookings_removed":2`)
	orphans, err := repository.NewBookingRepository(app.db).CountByService(context.Background(), serviceID)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app := newTestApp(t)
	app.register("alice")
	alice := app.login("alice", "blue-Harbor-42")
	stolen := *alice.cookies[cookieName]

	assert.Equal(t, http.StatusOK, alice.get("/dashboard").Code)

	w := alice.postForm("/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotContains(t, alice.cookies, cookieName)

	// replaying the old token no longer works
	replay := app.client()
	replay.cookies[cookieName] = &stolen
	w = replay.get("/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", w.Header().Get("Location"))

	w = replay.sendJSON(http.MethodPost, "/confirm_payment", map[string]any{"bookingId": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessControl(t *testing.T) {
	app := newTestApp(t)
	app.register("alice")
	alice := app.login("alice", "blue-Harbor-42")
	anon := app.client()

	w := anon.get("/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?next="))

	assert.Equal(t, http.StatusFound, alice.get("/admin").Code)
	assert.Equal(t, http.StatusForbidden, alice.get("/admin/api/stats").Code)
	assert.Equal(t, http.StatusUnauthorized, anon.get("/admin/api/stats").Code)

	w = anon.get("/confirm_payment")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid request method."}`, w.Body.String())

	w = alice.do(httptest.NewRequest(http.MethodPost, "/confirm_payment", strings.NewReader("{oops")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNotFound, alice.get("/book/9999").Code)
	assert.Equal(t, http.StatusNotFound, anon.get("/no/such/page").Code)
}

func TestLoginFailureAndNext(t *testing.T) {
	app := newTestApp(t)
	app.register("alice")

	c := app.client()
	w := c.postForm("/login", url.Values{"username": {"alice"}, "password": {"nope-nope-nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
	assert.NotContains(t, c.cookies, cookieName)

	w = c.postForm("/login", url.Values{"username": {"alice"}, "password": {"blue-Harbor-42"}, "next": {"/history"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/history", w.Header().Get("Location"))

	w = app.client().postForm("/login", url.Values{"username": {"alice"}, "password": {"blue-Harbor-42"}, "next": {"//evil.example"}})
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	c := app.client()

	w := c.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	c.get("/services")
	w = c.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `servicebooking_http_requests_total{method="GET",route="/services",status="200"} 1`)
}
