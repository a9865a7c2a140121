package specification

import (
	"strings"

	"gorm.io/gorm"
)

// BookSearch matches books whose title OR author contains Query, ignoring case.
// An empty query matches everything.
type BookSearch struct {
	Query string
}

func (s BookSearch) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	// Both sides go through the database's LOWER so they fold the same way.
	pattern := "%" + escapeLike(s.Query) + "%"
	return db.Where(`(LOWER(books.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(books.author) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
