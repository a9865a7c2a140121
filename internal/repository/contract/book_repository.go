package contract

import (
	"context"

	"booklog-be/internal/entity"
	"booklog-be/internal/repository/specification"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	// CreateWithMemos inserts the book and its memos in one go.
	CreateWithMemos(ctx context.Context, book *entity.Book, memos []*entity.Memo) error
	// UpdateWhere applies fields to every row matching specs and returns how
	// many rows changed.
	UpdateWhere(ctx context.Context, fields map[string]interface{}, specs ...specification.Specification) (int64, error)
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
