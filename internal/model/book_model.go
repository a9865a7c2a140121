package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Book struct {
	Id            uint            `gorm:"primaryKey;autoIncrement"`
	Title         string          `gorm:"type:varchar(200);not null"`
	Author        string          `gorm:"type:varchar(100);not null"`
	PublishedDate *datatypes.Date `gorm:"type:date"`
	UserId        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`

	Memos []Memo `gorm:"foreignKey:BookId;constraint:OnDelete:CASCADE"`
}

func (Book) TableName() string {
	return "books"
}
