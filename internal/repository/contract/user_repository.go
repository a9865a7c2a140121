package contract

import (
	"context"

	"booklog-be/internal/entity"
	"booklog-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// CreateIfAbsent inserts user unless the email is taken. It reports
	// whether this call inserted the row.
	CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
