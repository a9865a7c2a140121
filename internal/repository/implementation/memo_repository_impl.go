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

type MemoRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoMapper
}

func NewMemoRepository(db *gorm.DB) contract.MemoRepository {
	return &MemoRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoMapper(),
	}
}

func (r *MemoRepositoryImpl) Create(ctx context.Context, memo *entity.Memo) error {
	m := r.mapper.ToModel(memo)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// The parent vanished between lookup and insert.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperror.NotFound("book not found")
		}
		return err
	}
	*memo = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoRepositoryImpl) UpdateWhere(ctx context.Context, fields map[string]interface{}, specs ...specification.Specification) (int64, error) {
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Memo{}), specs...)
	result := query.Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *MemoRepositoryImpl) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	result := query.Delete(&model.Memo{})
	return result.RowsAffected, result.Error
}

func (r *MemoRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Memo, error) {
	var m model.Memo
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Memo, error) {
	var models []*model.Memo
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Memo{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
