package specification

import (
	"booklog-be/internal/entity"

	"gorm.io/gorm"
)

type Resource string

const (
	ResourceBook Resource = "books"
	ResourceMemo Resource = "memos"
)

// BelongsTo restricts a query to the rows the identity owns. Books are owned
// directly, memos through their book. An anonymous identity owns nothing.
//
// The memo form is a subquery rather than a join so the same predicate works
// for SELECT, UPDATE and DELETE statements.
type BelongsTo struct {
	Resource Resource
	Identity entity.Identity
}

func (s BelongsTo) Apply(db *gorm.DB) *gorm.DB {
	if s.Identity.IsAnonymous() {
		return Nothing{}.Apply(db)
	}

	switch s.Resource {
	case ResourceBook:
		return db.Where("books.user_id = ?", s.Identity.UserId)
	case ResourceMemo:
		return db.Where("memos.book_id IN (SELECT books.id FROM books WHERE books.user_id = ?)", s.Identity.UserId)
	default:
		return Nothing{}.Apply(db)
	}
}
