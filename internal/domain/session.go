package domain

import "time"

// Session is the server-side record behind a session cookie.
// The cookie carries a signed token whose jti equals ID; revoking the record
// invalidates the token even before it expires.
type Session struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Role      UserRole   `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) Active(now time.Time) bool {
	return !s.IsRevoked() && !s.IsExpired(now)
}
