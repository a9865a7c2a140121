package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string // nil for the guest account
	FullName     string
	IsGuest      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
