package auth

import (
	"context"
	"time"

	"servicebooking/internal/domain"
	"servicebooking/internal/pkg/jwt"
)

// UserRepository: only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionStore keeps server-side session records (database or redis).
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Revoke(ctx context.Context, id string) error
}

type TokenService interface {
	GenerateToken(sessionID string, userID int64, username, role string, issuedAt time.Time) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
	TTL() time.Duration
}
