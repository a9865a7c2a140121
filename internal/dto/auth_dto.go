package dto

import (
	"strings"

	"github.com/google/uuid"
)

type SignupRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" form:"full_name" validate:"max=255"`
}

func (r *SignupRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Redacted drops the password before a form is echoed back.
func (r LoginRequest) Redacted() LoginRequest {
	r.Password = ""
	return r
}

func (r SignupRequest) Redacted() SignupRequest {
	r.Password = ""
	return r
}

type UserDTO struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	IsGuest  bool      `json:"is_guest"`
}
