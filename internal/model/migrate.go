package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the users, books and memos tables.
// Order matters: foreign keys point users <- books <- memos.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Book{},
		&Memo{},
	)
}
