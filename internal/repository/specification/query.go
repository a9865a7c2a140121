package specification

import "booklog-be/internal/entity"

const BookPageSize = 5

// BookQuery composes scope -> search -> paginate for the book list. It is a
// value: every method returns a modified copy and leaves the receiver as is.
type BookQuery struct {
	identity entity.Identity
	search   string
	page     int
}

func ScopedBooks(identity entity.Identity) BookQuery {
	return BookQuery{identity: identity, page: 1}
}

func (q BookQuery) Search(query string) BookQuery {
	q.search = query
	return q
}

func (q BookQuery) Page(number int) BookQuery {
	q.page = number
	return q
}

func (q BookQuery) Identity() entity.Identity { return q.identity }

// Query is the search string exactly as given, for redisplay.
func (q BookQuery) Query() string { return q.search }

func (q BookQuery) RequestedPage() int { return q.page }

// FilterSpecs selects the full scoped, searched set. Use it for counting.
func (q BookQuery) FilterSpecs() []Specification {
	return []Specification{
		BelongsTo{Resource: ResourceBook, Identity: q.identity},
		BookSearch{Query: q.search},
	}
}

// Paginate resolves the requested page against total matching rows.
func (q BookQuery) Paginate(total int64) Page {
	return Paginate(total, BookPageSize, q.page)
}

// Specs selects the rows of page, newest first. Ties cannot happen because
// ordering is by primary key.
func (q BookQuery) Specs(page Page) []Specification {
	return append(q.FilterSpecs(),
		OrderBy{Field: "books.id", Desc: true},
		page.Spec(),
	)
}

// OneBook selects a single book inside the identity's scope.
func OneBook(identity entity.Identity, id uint) []Specification {
	return []Specification{
		BelongsTo{Resource: ResourceBook, Identity: identity},
		ByID{ID: id},
	}
}

// MemoQuery is the memo counterpart of BookQuery. Memos are not paginated.
type MemoQuery struct {
	identity entity.Identity
	bookId   uint
	hasBook  bool
}

func ScopedMemos(identity entity.Identity) MemoQuery {
	return MemoQuery{identity: identity}
}

func (q MemoQuery) ForBook(bookId uint) MemoQuery {
	q.bookId = bookId
	q.hasBook = true
	return q
}

func (q MemoQuery) FilterSpecs() []Specification {
	specs := []Specification{BelongsTo{Resource: ResourceMemo, Identity: q.identity}}
	if q.hasBook {
		specs = append(specs, ByBookID{BookID: q.bookId})
	}
	return specs
}

// Specs lists memos oldest first.
func (q MemoQuery) Specs() []Specification {
	return append(q.FilterSpecs(), OrderBy{Field: "memos.id", Desc: false})
}

// OneMemo selects a single memo inside the identity's scope.
func OneMemo(identity entity.Identity, id uint) []Specification {
	return []Specification{
		BelongsTo{Resource: ResourceMemo, Identity: identity},
		ByID{ID: id},
	}
}
