package implementation

import (
	"context"
	"errors"

	"booklog-be/internal/entity"
	"booklog-be/internal/mapper"
	"booklog-be/internal/model"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/repository/contract"
	"booklog-be/internal/repository/specification"

	"gorm.io/gorm"
)

type BookRepositoryImpl struct {
	db         *gorm.DB
	mapper     *mapper.BookMapper
	memoMapper *mapper.MemoMapper
}

func NewBookRepository(db *gorm.DB) contract.BookRepository {
	return &BookRepositoryImpl{
		db:         db,
		mapper:     mapper.NewBookMapper(),
		memoMapper: mapper.NewMemoMapper(),
	}
}

func (r *BookRepositoryImpl) Create(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// A signed session can outlive its account.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperror.Unauthorized("account no longer exists")
		}
		return err
	}
	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookRepositoryImpl) CreateWithMemos(ctx context.Context, book *entity.Book, memos []*entity.Memo) error {
	if err := r.Create(ctx, book); err != nil {
		return err
	}
	if len(memos) == 0 {
		return nil
	}

	for _, memo := range memos {
		memo.BookId = book.Id
	}
	models := r.memoMapper.ToModels(memos)
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*memos[i] = *r.memoMapper.ToEntity(m)
	}
	return nil
}

func (r *BookRepositoryImpl) UpdateWhere(ctx context.Context, fields map[string]interface{}, specs ...specification.Specification) (int64, error) {
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Book{}), specs...)
	result := query.Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *BookRepositoryImpl) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	result := query.Delete(&model.Book{})
	return result.RowsAffected, result.Error
}

func (r *BookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	var m model.Book
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	var models []*model.Book
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Book{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
