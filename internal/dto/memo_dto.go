package dto

import (
	"strings"
	"time"
)

// MemoFormRequest deliberately has no book field: the parent comes from the URL.
type MemoFormRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

func (r *MemoFormRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type MemoResponse struct {
	Id        uint      `json:"id"`
	BookId    uint      `json:"book_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MemoEditResponse struct {
	Memo *MemoResponse                 `json:"memo"`
	Form FormResponse[MemoFormRequest] `json:"form"`
}
