package service

import (
	"context"
	"fmt"
	"time"

	"booklog-be/internal/dto"
	"booklog-be/internal/entity"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/repository/specification"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/pkg/events"
)

// IMemoService methods return the parent book id so the caller can redirect
// back to the book's detail page.
type IMemoService interface {
	NewForm(ctx context.Context, identity entity.Identity, bookId uint) (*dto.FormResponse[dto.MemoFormRequest], error)
	Create(ctx context.Context, identity entity.Identity, bookId uint, req *dto.MemoFormRequest) (uint, error)
	EditForm(ctx context.Context, identity entity.Identity, id uint) (*dto.MemoEditResponse, error)
	Update(ctx context.Context, identity entity.Identity, id uint, req *dto.MemoFormRequest) (uint, error)
	Delete(ctx context.Context, identity entity.Identity, id uint) (uint, error)
}

type memoService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewMemoService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IMemoService {
	return &memoService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// NewForm returns an empty memo form for a book in scope.
func (c *memoService) NewForm(ctx context.Context, identity entity.Identity, bookId uint) (*dto.FormResponse[dto.MemoFormRequest], error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.BookRepository().Count(ctx, specification.OneBook(identity, bookId)...)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperror.NotFound("book not found")
	}

	form := dto.NewForm(dto.MemoFormRequest{}, nil)
	return &form, nil
}

// Create attaches a memo to bookId. The parent always comes from the caller
// (the URL), never from the request body, and must be in scope.
func (c *memoService) Create(ctx context.Context, identity entity.Identity, bookId uint, req *dto.MemoFormRequest) (uint, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	book, err := uow.BookRepository().FindOne(ctx, specification.OneBook(identity, bookId)...)
	if err != nil {
		return 0, err
	}
	if book == nil {
		return 0, apperror.NotFound("book not found")
	}

	memo := entity.Memo{
		BookId:    book.Id,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.MemoRepository().Create(ctx, &memo); err != nil {
		return 0, fmt.Errorf("create memo: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	c.publisherService.Publish(ctx, events.New(EventMemoCreated, map[string]interface{}{
		"memo_id": memo.Id,
		"book_id": book.Id,
		"user_id": identity.String(),
	}))
	return book.Id, nil
}

func (c *memoService) EditForm(ctx context.Context, identity entity.Identity, id uint) (*dto.MemoEditResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	memo, err := uow.MemoRepository().FindOne(ctx, specification.OneMemo(identity, id)...)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return nil, apperror.NotFound("memo not found")
	}

	return &dto.MemoEditResponse{
		Memo: toMemoResponse(memo),
		Form: dto.NewForm(dto.MemoFormRequest{Content: memo.Content}, nil),
	}, nil
}

func (c *memoService) Update(ctx context.Context, identity entity.Identity, id uint, req *dto.MemoFormRequest) (uint, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	memo, err := uow.MemoRepository().FindOne(ctx, specification.OneMemo(identity, id)...)
	if err != nil {
		return 0, err
	}
	if memo == nil {
		return 0, apperror.NotFound("memo not found")
	}

	rows, err := uow.MemoRepository().UpdateWhere(ctx,
		map[string]interface{}{"content": req.Content},
		specification.OneMemo(identity, id)...,
	)
	if err != nil {
		return 0, fmt.Errorf("update memo: %w", err)
	}
	if rows == 0 {
		return 0, apperror.NotFound("memo not found")
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	c.publisherService.Publish(ctx, events.New(EventMemoUpdated, map[string]interface{}{
		"memo_id": id,
		"book_id": memo.BookId,
		"user_id": identity.String(),
	}))
	return memo.BookId, nil
}

func (c *memoService) Delete(ctx context.Context, identity entity.Identity, id uint) (uint, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	memo, err := uow.MemoRepository().FindOne(ctx, specification.OneMemo(identity, id)...)
	if err != nil {
		return 0, err
	}
	if memo == nil {
		return 0, apperror.NotFound("memo not found")
	}

	rows, err := uow.MemoRepository().DeleteWhere(ctx, specification.OneMemo(identity, id)...)
	if err != nil {
		return 0, fmt.Errorf("delete memo: %w", err)
	}
	if rows == 0 {
		return 0, apperror.NotFound("memo not found")
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	c.publisherService.Publish(ctx, events.New(EventMemoDeleted, map[string]interface{}{
		"memo_id": id,
		"book_id": memo.BookId,
		"user_id": identity.String(),
	}))
	return memo.BookId, nil
}
