package specification

import "gorm.io/gorm"

type ByBookID struct {
	BookID uint
}

func (s ByBookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("memos.book_id = ?", s.BookID)
}
