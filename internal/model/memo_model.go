package model

import "time"

type Memo struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	BookId    uint      `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Memo) TableName() string {
	return "memos"
}
