package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/validator"
	"servicebooking/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// Service contains all business logic for authentication
type Service struct {
	users    UserRepository
	sessions SessionStore
	tokens   TokenService
	now      func() time.Time
}

func NewService(users UserRepository, sessions SessionStore, tokens TokenService) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a customer account. Problems with the submitted form come
// back as validator.FieldErrors.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	errs := validator.Validate(req)
	if errs == nil {
		errs = validator.FieldErrors{}
	}

	if _, bad := errs["username"]; !bad {
		exists, err := s.users.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("username", msgUsernameTaken)
		}
	}
	if _, bad := errs["email"]; !bad {
		exists, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("email", msgEmailTaken)
		}
	}
	if _, bad := errs["password2"]; !bad && req.Password1 != "" {
		if msg := checkPassword(req.Password1, req.Username, req.Email); msg != "" {
			errs.Add("password2", msg)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	hashedPassword, err := s.hashPassword(req.Password1)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validator.FieldErrors{"username": msgUsernameTaken}
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and opens a session. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(sess.ID, user.ID, user.Username, string(user.Role), now)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Session: sess, Token: token}, nil
}

// Resolve maps a session token to its active session record.
func (s *Service) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if !sess.Active(s.now()) || sess.UserID != claims.UserID {
		return nil, ErrInvalidSession
	}
	return sess, nil
}

// Logout revokes the session. Unknown sessions are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
