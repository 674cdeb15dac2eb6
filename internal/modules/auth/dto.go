package auth

import "servicebooking/internal/domain"

// RegisterRequest mirrors the registration form.
type RegisterRequest struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}
