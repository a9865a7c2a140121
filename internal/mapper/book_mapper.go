package mapper

import (
	"time"

	"booklog-be/internal/entity"
	"booklog-be/internal/model"

	"gorm.io/datatypes"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}

	var publishedDate *time.Time
	if b.PublishedDate != nil {
		t := time.Time(*b.PublishedDate)
		publishedDate = &t
	}

	return &entity.Book{
		Id:            b.Id,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: publishedDate,
		UserId:        b.UserId,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m *BookMapper) ToModel(b *entity.Book) *model.Book {
	if b == nil {
		return nil
	}

	return &model.Book{
		Id:            b.Id,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: ToDate(b.PublishedDate),
		UserId:        b.UserId,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}

// ToDate converts an optional calendar date to its column type.
func ToDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}
