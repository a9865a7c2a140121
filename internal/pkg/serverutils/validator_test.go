package serverutils

import (
	"testing"

	"booklog-be/internal/dto"
	"booklog-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookForm(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.BookFormRequest
		wantFields map[string]string
	}{
		{
			name: "valid with date",
			req:  dto.BookFormRequest{Title: "羅生門", Author: "芥川龍之介", PublishedDate: "1915-11-01"},
		},
		{
			name: "valid without date",
			req:  dto.BookFormRequest{Title: "羅生門", Author: "芥川龍之介"},
		},
		{
			name:       "whitespace only is missing",
			req:        dto.BookFormRequest{Title: "   ", Author: "\t"},
			wantFields: map[string]string{"title": "is required", "author": "is required"},
		},
		{
			name:       "impossible date",
			req:        dto.BookFormRequest{Title: "t", Author: "a", PublishedDate: "2023-02-30"},
			wantFields: map[string]string{"published_date": "must be a valid date (YYYY-MM-DD)"},
		},
		{
			name:       "author too long",
			req:        dto.BookFormRequest{Title: "t", Author: string(make([]rune, 101))},
			wantFields: map[string]string{"author": "must not exceed 100 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := ValidateRequest(&req)

			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			verr, ok := apperror.AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestValidateTrimsInput(t *testing.T) {
	req := dto.MemoFormRequest{Content: "  keep me  "}
	require.NoError(t, ValidateRequest(&req))
	assert.Equal(t, "keep me", req.Content)
}
