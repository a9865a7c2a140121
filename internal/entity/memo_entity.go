package entity

import "time"

// Memo has no owner column of its own: it belongs to whoever owns BookId.
type Memo struct {
	Id        uint
	BookId    uint
	Content   string
	CreatedAt time.Time
}
