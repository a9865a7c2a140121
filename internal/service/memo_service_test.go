package service_test

import (
	"context"
	"testing"

	"booklog-be/internal/dto"
	"booklog-be/internal/model"
	"booklog-be/internal/pkg/apperror"
	"booklog-be/internal/service"
	"booklog-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoServiceCreate(t *testing.T) {
	f := newFixture(t)
	svc := service.NewMemoService(f.uowFactory, f.publisher)
	ctx := context.Background()

	alice := testutil.CreateUser(t, f.db, "alice@example.com")
	bob := testutil.CreateUser(t, f.db, "bob@example.com")
	aliceBook := testutil.CreateBook(t, f.db, alice, "Alice's", "A")
	bobBook := testutil.CreateBook(t, f.db, bob, "Bob's", "B")

	t.Run("memo goes to the book named by the caller", func(t *testing.T) {
		parent, err := svc.Create(ctx, alice, aliceBook.Id, &dto.MemoFormRequest{Content: "nice"})
		require.NoError(t, err)
		assert.Equal(t, aliceBook.Id, parent)
		assert.EqualValues(t, 1, f.memoCount(t, aliceBook.Id))
	})

	t.Run("book of another user is not found", func(t *testing.T) {
		_, err := svc.Create(ctx, alice, bobBook.Id, &dto.MemoFormRequest{Content: "sneaky"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.EqualValues(t, 0, f.memoCount(t, bobBook.Id))
	})

	t.Run("missing book is not found", func(t *testing.T) {
		_, err := svc.Create(ctx, alice, 9999, &dto.MemoFormRequest{Content: "orphan"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("new form is scoped too", func(t *testing.T) {
		_, err := svc.NewForm(ctx, alice, bobBook.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		form, err := svc.NewForm(ctx, alice, aliceBook.Id)
		require.NoError(t, err)
		assert.Empty(t, form.Values.Content)
	})
}

func TestMemoServiceUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := service.NewMemoService(f.uowFactory, f.publisher)
	ctx := context.Background()

	alice := testutil.CreateUser(t, f.db, "alice@example.com")
	bob := testutil.CreateUser(t, f.db, "bob@example.com")
	book := testutil.CreateBook(t, f.db, alice, "Alice's", "A", "draft")

	var memo model.Memo
	require.NoError(t, f.db.Where("book_id = ?", book.Id).First(&memo).Error)

	t.Run("edit form shows current content", func(t *testing.T) {
		res, err := svc.EditForm(ctx, alice, memo.Id)
		require.NoError(t, err)
		assert.Equal(t, "draft", res.Form.Values.Content)
		assert.Equal(t, book.Id, res.Memo.BookId)
	})

	t.Run("other user cannot edit", func(t *testing.T) {
		_, err := svc.EditForm(ctx, bob, memo.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = svc.Update(ctx, bob, memo.Id, &dto.MemoFormRequest{Content: "defaced"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		var stored model.Memo
		require.NoError(t, f.db.First(&stored, memo.Id).Error)
		assert.Equal(t, "draft", stored.Content)
	})

	t.Run("owner updates and gets the parent back", func(t *testing.T) {
		parent, err := svc.Update(ctx, alice, memo.Id, &dto.MemoFormRequest{Content: "final"})
		require.NoError(t, err)
		assert.Equal(t, book.Id, parent)

		var stored model.Memo
		require.NoError(t, f.db.First(&stored, memo.Id).Error)
		assert.Equal(t, "final", stored.Content)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		_, err := svc.Delete(ctx, bob, memo.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.EqualValues(t, 1, f.memoCount(t, book.Id))
	})

	t.Run("owner deletes", func(t *testing.T) {
		parent, err := svc.Delete(ctx, alice, memo.Id)
		require.NoError(t, err)
		assert.Equal(t, book.Id, parent)
		assert.EqualValues(t, 0, f.memoCount(t, book.Id))
	})
}
