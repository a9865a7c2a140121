package mapper

import (
	"booklog-be/internal/entity"
	"booklog-be/internal/model"
)

type MemoMapper struct{}

func NewMemoMapper() *MemoMapper {
	return &MemoMapper{}
}

func (m *MemoMapper) ToEntity(n *model.Memo) *entity.Memo {
	if n == nil {
		return nil
	}
	return &entity.Memo{
		Id:        n.Id,
		BookId:    n.BookId,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}

func (m *MemoMapper) ToModel(n *entity.Memo) *model.Memo {
	if n == nil {
		return nil
	}
	return &model.Memo{
		Id:        n.Id,
		BookId:    n.BookId,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}

func (m *MemoMapper) ToEntities(memos []*model.Memo) []*entity.Memo {
	entities := make([]*entity.Memo, len(memos))
	for i, n := range memos {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *MemoMapper) ToModels(memos []*entity.Memo) []*model.Memo {
	models := make([]*model.Memo, len(memos))
	for i, n := range memos {
		models[i] = m.ToModel(n)
	}
	return models
}
