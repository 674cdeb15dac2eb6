package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/jwt"
	"servicebooking/internal/pkg/validator"
	"servicebooking/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 101 // simulate DB insert
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Create(ctx context.Context, s *domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionStore) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(users *mockUserRepo, sessions *mockSessionStore) *Service {
	return NewService(users, sessions, jwt.New("test-secret", time.Hour))
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "blue-Harbor-42",
		Password2: "blue-Harbor-42",
	}
}

func TestRegister_CreatesCustomer(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := newTestService(users, new(mockSessionStore))

	user, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, int64(101), user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "blue-Harbor-42", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("blue-Harbor-42")))
	users.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)
	users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)

	svc := newTestService(users, new(mockSessionStore))

	_, err := svc.Register(context.Background(), validRegister())

	var errs validator.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, msgUsernameTaken, errs["username"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_FieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(r *RegisterRequest)
		field string
		msg   string
	}{
		{"mismatch", func(r *RegisterRequest) { r.Password2 = "other-Harbor-42" }, "password2", "The two password fields didn't match."},
		{"short", func(r *RegisterRequest) { r.Password1, r.Password2 = "a1b2", "a1b2" }, "password2", "This password is too short. It must contain at least 8 characters."},
		{"numeric", func(r *RegisterRequest) { r.Password1, r.Password2 = "90817263", "90817263" }, "password2", "This password is entirely numeric."},
		{"common", func(r *RegisterRequest) { r.Password1, r.Password2 = "password123", "password123" }, "password2", "This password is too common."},
		{"too long", func(r *RegisterRequest) {
			r.Password1 = strings.Repeat("blue-Harbor-42/", 6)
			r.Password2 = r.Password1
		}, "password2", "This password is too long. It must contain at most 72 bytes."},
		{"similar", func(r *RegisterRequest) { r.Password1, r.Password2 = "alice2024!", "alice2024!" }, "password2", "The password is too similar to the username."},
		{"bad username", func(r *RegisterRequest) { r.Username = "alice smith" }, "username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email", "Enter a valid email address."},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email", "This field is required."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mockUserRepo)
			users.On("ExistsByUsername", mock.Anything, mock.Anything).Return(false, nil).Maybe()
			users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil).Maybe()
			svc := newTestService(users, new(mockSessionStore))

			req := validRegister()
			tc.edit(&req)

			_, err := svc.Register(context.Background(), req)

			var errs validator.FieldErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tc.msg, errs[tc.field])
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_DuplicateOnInsert(t *testing.T) {
	users := new(mockUserRepo)
	users.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	svc := newTestService(users, new(mockSessionStore))

	_, err := svc.Register(context.Background(), validRegister())

	var errs validator.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "username")
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_IssuesSessionToken(t *testing.T) {
	alice := &domain.User{ID: 7, Username: "alice", Role: domain.RoleCustomer, PasswordHash: hashed(t, "blue-Harbor-42")}

	users := new(mockUserRepo)
	users.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)

	var created *domain.Session
	sessions := new(mockSessionStore)
	sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Session) }).
		Return(nil)

	svc := newTestService(users, sessions)

	res, err := svc.Login(context.Background(), "alice", "blue-Harbor-42")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, res.Session.ID)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, time.Hour, created.ExpiresAt.Sub(created.CreatedAt))

	sessions.On("Get", mock.Anything, created.ID).Return(created, nil)
	resolved, err := svc.Resolve(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resolved.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	alice := &domain.User{ID: 7, Username: "alice", Role: domain.RoleCustomer, PasswordHash: hashed(t, "blue-Harbor-42")}

	users := new(mockUserRepo)
	users.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
	users.On("GetByUsername", mock.Anything, "mallory").Return(nil, repository.ErrNotFound)
	sessions := new(mockSessionStore)

	svc := newTestService(users, sessions)

	_, err := svc.Login(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "mallory", "blue-Harbor-42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolve_RevokedOrExpired(t *testing.T) {
	tokens := jwt.New("test-secret", time.Hour)
	now := time.Now().UTC()
	token, err := tokens.GenerateToken("sess-1", 7, "alice", "customer", now)
	require.NoError(t, err)

	revokedAt := now
	sessions := new(mockSessionStore)
	sessions.On("Get", mock.Anything, "sess-1").Return(&domain.Session{
		ID: "sess-1", UserID: 7, ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt,
	}, nil).Once()
	sessions.On("Get", mock.Anything, "sess-1").Return(nil, repository.ErrNotFound).Once()

	svc := NewService(new(mockUserRepo), sessions, tokens)

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogout_RevokesSession(t *testing.T) {
	sessions := new(mockSessionStore)
	sessions.On("Revoke", mock.Anything, "sess-1").Return(nil)

	svc := newTestService(new(mockUserRepo), sessions)

	require.NoError(t, svc.Logout(context.Background(), "sess-1"))
	require.NoError(t, svc.Logout(context.Background(), ""))
	sessions.AssertNumberOfCalls(t, "Revoke", 1)
}
