package entity

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id            uint
	Title         string
	Author        string
	PublishedDate *time.Time
	UserId        uuid.UUID // owner, fixed at creation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
