package service

import (
	"context"
	"fmt"
	"time"

	"booklog-be/internal/dto"
	"booklog-be/internal/entity"
	"booklog-be/internal/mapper"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/pkg/logger"
	"booklog-be/internal/repository/specification"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/pkg/events"
)

type IBookService interface {
	List(ctx context.Context, identity entity.Identity, query string, page int) (*dto.BookListResponse, error)
	Show(ctx context.Context, identity entity.Identity, id uint) (*dto.BookDetailResponse, error)
	EditForm(ctx context.Context, identity entity.Identity, id uint) (*dto.FormResponse[dto.BookFormRequest], error)
	Create(ctx context.Context, identity entity.Identity, req *dto.BookFormRequest) (*dto.BookResponse, error)
	Update(ctx context.Context, identity entity.Identity, id uint, req *dto.BookFormRequest) error
	Delete(ctx context.Context, identity entity.Identity, id uint) error
}

type bookService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewBookService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IBookService {
	return &bookService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (c *bookService) List(ctx context.Context, identity entity.Identity, query string, page int) (*dto.BookListResponse, error) {
	q := specification.ScopedBooks(identity).Search(query).Page(page)

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Count and fetch inside one transaction so the page matches the total.
	total, err := uow.BookRepository().Count(ctx, q.FilterSpecs()...)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	resolved := q.Paginate(total)
	books, err := uow.BookRepository().FindAll(ctx, q.Specs(resolved)...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	items := make([]*dto.BookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, toBookResponse(book))
	}

	return &dto.BookListResponse{
		Items: items,
		Page:  resolved,
		Query: q.Query(),
	}, nil
}

func (c *bookService) Show(ctx context.Context, identity entity.Identity, id uint) (*dto.BookDetailResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.OneBook(identity, id)...)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound("book not found")
	}

	memos, err := uow.MemoRepository().FindAll(ctx, specification.ScopedMemos(identity).ForBook(book.Id).Specs()...)
	if err != nil {
		return nil, err
	}

	res := &dto.BookDetailResponse{
		Book:     toBookResponse(book),
		Memos:    make([]*dto.MemoResponse, 0, len(memos)),
		MemoForm: dto.NewForm(dto.MemoFormRequest{}, nil),
	}
	for _, memo := range memos {
		res.Memos = append(res.Memos, toMemoResponse(memo))
	}
	return res, nil
}

func (c *bookService) EditForm(ctx context.Context, identity entity.Identity, id uint) (*dto.FormResponse[dto.BookFormRequest], error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.OneBook(identity, id)...)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NotFound("book not found")
	}

	values := dto.BookFormRequest{
		Title:  book.Title,
		Author: book.Author,
	}
	if book.PublishedDate != nil {
		values.PublishedDate = book.PublishedDate.Format(dto.DateLayout)
	}

	form := dto.NewForm(values, nil)
	return &form, nil
}

func (c *bookService) Create(ctx context.Context, identity entity.Identity, req *dto.BookFormRequest) (*dto.BookResponse, error) {
	if identity.IsAnonymous() {
		return nil, apperror.Unauthorized("login required")
	}

	publishedDate, err := req.PublishedDateValue()
	if err != nil {
		return nil, apperror.FieldError("published_date", "must be a valid date (YYYY-MM-DD)")
	}

	now := time.Now()
	book := entity.Book{
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: publishedDate,
		UserId:        identity.UserId,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BookRepository().Create(ctx, &book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	c.logger.Info("BOOK", "Book created", map[string]interface{}{
		"book_id": book.Id,
		"user_id": identity.String(),
	})
	c.publisherService.Publish(ctx, events.New(EventBookCreated, map[string]interface{}{
		"book_id": book.Id,
		"user_id": identity.String(),
		"title":   book.Title,
	}))

	return toBookResponse(&book), nil
}

// Update changes the book only when it is in the identity's scope. The scope
// check and the write are one conditional statement.
func (c *bookService) Update(ctx context.Context, identity entity.Identity, id uint, req *dto.BookFormRequest) error {
	publishedDate, err := req.PublishedDateValue()
	if err != nil {
		return apperror.FieldError("published_date", "must be a valid date (YYYY-MM-DD)")
	}

	fields := map[string]interface{}{
		"title":          req.Title,
		"author":         req.Author,
		"published_date": nil,
		"updated_at":     time.Now(),
	}
	if publishedDate != nil {
		fields["published_date"] = mapper.ToDate(publishedDate)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.BookRepository().UpdateWhere(ctx, fields, specification.OneBook(identity, id)...)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("book not found")
	}

	c.publisherService.Publish(ctx, events.New(EventBookUpdated, map[string]interface{}{
		"book_id": id,
		"user_id": identity.String(),
	}))
	return nil
}

// Delete removes the book's memos and then the book in one transaction. The
// foreign key cascades as well, but the explicit delete keeps the behaviour
// independent of the database's FK enforcement.
func (c *bookService) Delete(ctx context.Context, identity entity.Identity, id uint) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	memoCount, err := uow.MemoRepository().DeleteWhere(ctx, specification.ScopedMemos(identity).ForBook(id).FilterSpecs()...)
	if err != nil {
		return fmt.Errorf("delete memos: %w", err)
	}

	rows, err := uow.BookRepository().DeleteWhere(ctx, specification.OneBook(identity, id)...)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("book not found")
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.logger.Info("BOOK", "Book deleted", map[string]interface{}{
		"book_id":       id,
		"deleted_memos": memoCount,
		"user_id":       identity.String(),
	})
	c.publisherService.Publish(ctx, events.New(EventBookDeleted, map[string]interface{}{
		"book_id":       id,
		"deleted_memos": memoCount,
		"user_id":       identity.String(),
	}))
	return nil
}

func toBookResponse(book *entity.Book) *dto.BookResponse {
	res := &dto.BookResponse{
		Id:        book.Id,
		Title:     book.Title,
		Author:    book.Author,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}
	if book.PublishedDate != nil {
		d := book.PublishedDate.Format(dto.DateLayout)
		res.PublishedDate = &d
	}
	return res
}

func toMemoResponse(memo *entity.Memo) *dto.MemoResponse {
	return &dto.MemoResponse{
		Id:        memo.Id,
		BookId:    memo.BookId,
		Content:   memo.Content,
		CreatedAt: memo.CreatedAt,
	}
}
