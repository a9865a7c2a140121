package unitofwork

import (
	"context"

	"booklog-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	BookRepository() contract.BookRepository
	MemoRepository() contract.MemoRepository
}

// RepositoryFactory hands out a fresh UnitOfWork per operation. Services hold
// the factory, never a UnitOfWork, since a UnitOfWork carries transaction state.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
