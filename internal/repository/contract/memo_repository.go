package contract

import (
	"context"

	"booklog-be/internal/entity"
	"booklog-be/internal/repository/specification"
)

type MemoRepository interface {
	Create(ctx context.Context, memo *entity.Memo) error
	UpdateWhere(ctx context.Context, fields map[string]interface{}, specs ...specification.Specification) (int64, error)
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Memo, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Memo, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
