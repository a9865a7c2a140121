package dto

import (
	"strings"
	"time"

	"booklog-be/internal/repository/specification"
)

const DateLayout = "2006-01-02"

// BookFormRequest is the create/edit form for a book. Owner is never part of
// the form: it always comes from the session.
type BookFormRequest struct {
	Title         string `json:"title" form:"title" validate:"required,max=200"`
	Author        string `json:"author" form:"author" validate:"required,max=100"`
	PublishedDate string `json:"published_date" form:"published_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *BookFormRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.PublishedDate = strings.TrimSpace(r.PublishedDate)
}

// PublishedDateValue parses the optional date; empty means no date.
func (r *BookFormRequest) PublishedDateValue() (*time.Time, error) {
	if r.PublishedDate == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, r.PublishedDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type BookResponse struct {
	Id            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate *string   `json:"published_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookListResponse struct {
	Items []*BookResponse    `json:"items"`
	Page  specification.Page `json:"page"`
	Query string             `json:"query"`
}

type BookDetailResponse struct {
	Book     *BookResponse                 `json:"book"`
	Memos    []*MemoResponse               `json:"memos"`
	MemoForm FormResponse[MemoFormRequest] `json:"memo_form"`
}

// FormResponse is what a form page renders: the current values and, after a
// failed submit, one message per invalid field.
type FormResponse[T any] struct {
	Values T                 `json:"values"`
	Errors map[string]string `json:"errors"`
}

func NewForm[T any](values T, errors map[string]string) FormResponse[T] {
	if errors == nil {
		errors = map[string]string{}
	}
	return FormResponse[T]{Values: values, Errors: errors}
}
