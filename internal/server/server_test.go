package server_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"booklog-be/internal/bootstrap"
	"booklog-be/internal/dto"
	"booklog-be/internal/entity"
	"booklog-be/internal/model"
	"booklog-be/internal/pkg/serverutils"
	"booklog-be/internal/server"
	"booklog-be/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	t         *testing.T
	app       *fiber.App
	db        *gorm.DB
	container *bootstrap.Container
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	infra := testutil.NewTestInfrastructure()
	t.Cleanup(infra.Close)

	container := bootstrap.NewContainer(db, cfg, infra)
	return &harness{
		t:         t,
		app:       server.New(cfg, container).GetApp(),
		db:        db,
		container: container,
	}
}

// do sends a request as identity (anonymous when zero). A non-nil form is
// sent urlencoded.
func (h *harness) do(method, target string, identity entity.Identity, form url.Values) *http.Response {
	h.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if !identity.IsAnonymous() {
		token, err := h.container.Sessions.Sign(identity)
		require.NoError(h.t, err)
		req.AddCookie(&http.Cookie{Name: h.container.Sessions.CookieName(), Value: token})
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) serverutils.BaseResponse[T] {
	t.Helper()
	defer resp.Body.Close()

	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (h *harness) countBooks() int64 {
	var n int64
	require.NoError(h.t, h.db.Model(&model.Book{}).Count(&n).Error)
	return n
}

func (h *harness) countMemos(bookId uint) int64 {
	var n int64
	require.NoError(h.t, h.db.Model(&model.Memo{}).Where("book_id = ?", bookId).Count(&n).Error)
	return n
}

func bookURL(id uint, suffix string) string {
	return fmt.Sprintf("/books/%d%s", id, suffix)
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	book := testutil.CreateBook(t, h.db, alice, "Private", "Alice")

	tests := []struct {
		name     string
		method   string
		target   string
		form     url.Values
		location string
	}{
		{name: "book list", method: http.MethodGet, target: "/books", location: "/login?next=/books"},
		{name: "list with query", method: http.MethodGet, target: "/books?page=2", location: "/login?next=/books%3Fpage%3D2"},
		{name: "existing book", method: http.MethodGet, target: bookURL(book.Id, ""), location: "/login?next=" + bookURL(book.Id, "")},
		{name: "missing book", method: http.MethodGet, target: "/books/999", location: "/login?next=/books/999"},
		{name: "create", method: http.MethodPost, target: "/books/new", form: url.Values{"title": {"x"}, "author": {"y"}}, location: "/login?next=/books/new"},
		{name: "delete", method: http.MethodPost, target: bookURL(book.Id, "/delete"), form: url.Values{}, location: "/login?next=" + bookURL(book.Id, "/delete")},
		{name: "memo edit", method: http.MethodGet, target: "/memos/1/edit", location: "/login?next=/memos/1/edit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.do(tt.method, tt.target, entity.Anonymous(), tt.form)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get(fiber.HeaderLocation))
		})
	}

	assert.EqualValues(t, 1, h.countBooks())
}

func TestForgedSessionIsAnonymous(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.AddCookie(&http.Cookie{Name: h.container.Sessions.CookieName(), Value: "not-a-jwt"})
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=/books", resp.Header.Get(fiber.HeaderLocation))
}

func TestRootRedirectsToBooks(t *testing.T) {
	h := newHarness(t)

	resp := h.do(http.MethodGet, "/", entity.Anonymous(), nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/books", resp.Header.Get(fiber.HeaderLocation))
}

func TestCreateBook(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")

	t.Run("valid form redirects to the list", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/books/new", alice, url.Values{
			"title":          {"  吾輩は猫である  "},
			"author":         {"夏目漱石"},
			"published_date": {"1905-10-06"},
		})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/books", resp.Header.Get(fiber.HeaderLocation))

		var stored model.Book
		require.NoError(t, h.db.First(&stored).Error)
		assert.Equal(t, "吾輩は猫である", stored.Title)
		assert.Equal(t, alice.UserId, stored.UserId)
	})

	t.Run("invalid form is redisplayed with field errors", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/books/new", alice, url.Values{
			"title":          {"   "},
			"author":         {"Someone"},
			"published_date": {"not-a-date"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		body := decode[dto.FormResponse[dto.BookFormRequest]](t, resp)
		assert.False(t, body.Success)
		assert.Equal(t, "is required", body.Data.Errors["title"])
		assert.Equal(t, "must be a valid date (YYYY-MM-DD)", body.Data.Errors["published_date"])
		assert.Equal(t, "Someone", body.Data.Values.Author)
		assert.EqualValues(t, 1, h.countBooks())
	})

	t.Run("over-long title is rejected", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/books/new", alice, url.Values{
			"title":  {strings.Repeat("a", 201)},
			"author": {"Someone"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[dto.FormResponse[dto.BookFormRequest]](t, resp)
		assert.Equal(t, "must not exceed 200 characters", body.Data.Errors["title"])
	})

	t.Run("json body is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/books/new", strings.NewReader(`{"title":"Kokoro","author":"Natsume Soseki"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		token, err := h.container.Sessions.Sign(alice)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.EqualValues(t, 2, h.countBooks())
	})
}

func TestOtherUsersBooksAreNotFound(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	bob := testutil.CreateUser(t, h.db, "bob@example.com")
	book := testutil.CreateBook(t, h.db, alice, "Alice's", "Alice", "private memo")

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
	}{
		{name: "detail", method: http.MethodGet, target: bookURL(book.Id, "")},
		{name: "edit form", method: http.MethodGet, target: bookURL(book.Id, "/edit")},
		{name: "edit submit", method: http.MethodPost, target: bookURL(book.Id, "/edit"), form: url.Values{"title": {"Bob's now"}, "author": {"Bob"}}},
		{name: "invalid edit submit", method: http.MethodPost, target: bookURL(book.Id, "/edit"), form: url.Values{"title": {""}}},
		{name: "delete", method: http.MethodPost, target: bookURL(book.Id, "/delete"), form: url.Values{}},
		{name: "add memo", method: http.MethodPost, target: bookURL(book.Id, "/memos/new"), form: url.Values{"content": {"hi"}}},
		{name: "add invalid memo", method: http.MethodPost, target: bookURL(book.Id, "/memos/new"), form: url.Values{"content": {" "}}},
		{name: "non-numeric id", method: http.MethodGet, target: "/books/abc"},
		{name: "zero id", method: http.MethodGet, target: "/books/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.do(tt.method, tt.target, bob, tt.form)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}

	var stored model.Book
	require.NoError(t, h.db.First(&stored, book.Id).Error)
	assert.Equal(t, "Alice's", stored.Title)
	assert.EqualValues(t, 1, h.countMemos(book.Id))
}

func TestBookListPagingAndSearch(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	for i := 1; i <= 12; i++ {
		testutil.CreateBook(t, h.db, alice, fmt.Sprintf("Book %02d", i), "Author")
	}

	tests := []struct {
		name       string
		target     string
		wantNumber int
		wantCount  int
		wantFirst  string
	}{
		{name: "default page", target: "/books", wantNumber: 1, wantCount: 5, wantFirst: "Book 12"},
		{name: "page two", target: "/books?page=2", wantNumber: 2, wantCount: 5, wantFirst: "Book 07"},
		{name: "page three", target: "/books?page=3", wantNumber: 3, wantCount: 2, wantFirst: "Book 02"},
		{name: "beyond last", target: "/books?page=4", wantNumber: 3, wantCount: 2, wantFirst: "Book 02"},
		{name: "last keyword", target: "/books?page=last", wantNumber: 3, wantCount: 2, wantFirst: "Book 02"},
		{name: "garbage page", target: "/books?page=abc", wantNumber: 1, wantCount: 5, wantFirst: "Book 12"},
		{name: "search", target: "/books?query=book+1", wantNumber: 1, wantCount: 3, wantFirst: "Book 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.do(http.MethodGet, tt.target, alice, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := decode[dto.BookListResponse](t, resp)
			assert.Equal(t, tt.wantNumber, body.Data.Page.Number)
			require.Len(t, body.Data.Items, tt.wantCount)
			assert.Equal(t, tt.wantFirst, body.Data.Items[0].Title)
		})
	}

	t.Run("query is echoed", func(t *testing.T) {
		resp := h.do(http.MethodGet, "/books?query=%20Book%20", alice, nil)
		body := decode[dto.BookListResponse](t, resp)
		assert.Equal(t, " Book ", body.Data.Query)
	})
}

func TestMemoParentComesFromPath(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	bob := testutil.CreateUser(t, h.db, "bob@example.com")
	aliceBook := testutil.CreateBook(t, h.db, alice, "Alice's", "Alice")
	bobBook := testutil.CreateBook(t, h.db, bob, "Bob's", "Bob")

	resp := h.do(http.MethodPost, bookURL(aliceBook.Id, "/memos/new"), alice, url.Values{
		"content": {"mine"},
		"book":    {fmt.Sprint(bobBook.Id)},
		"book_id": {fmt.Sprint(bobBook.Id)},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, bookURL(aliceBook.Id, ""), resp.Header.Get(fiber.HeaderLocation))

	assert.EqualValues(t, 1, h.countMemos(aliceBook.Id))
	assert.EqualValues(t, 0, h.countMemos(bobBook.Id))
}

func TestMemoLifecycle(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	bob := testutil.CreateUser(t, h.db, "bob@example.com")
	book := testutil.CreateBook(t, h.db, alice, "Alice's", "Alice", "first")

	var memo model.Memo
	require.NoError(t, h.db.Where("book_id = ?", book.Id).First(&memo).Error)
	memoURL := fmt.Sprintf("/memos/%d", memo.Id)

	t.Run("blank content is rejected", func(t *testing.T) {
		resp := h.do(http.MethodPost, bookURL(book.Id, "/memos/new"), alice, url.Values{"content": {"  "}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[dto.FormResponse[dto.MemoFormRequest]](t, resp)
		assert.Equal(t, "is required", body.Data.Errors["content"])
	})

	t.Run("other user cannot touch the memo", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, memoURL+"/edit", bob, nil).StatusCode)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, memoURL+"/edit", bob, url.Values{"content": {"x"}}).StatusCode)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, memoURL+"/delete", bob, url.Values{}).StatusCode)
	})

	t.Run("owner edits and returns to the book", func(t *testing.T) {
		resp := h.do(http.MethodPost, memoURL+"/edit", alice, url.Values{"content": {"edited"}})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, bookURL(book.Id, ""), resp.Header.Get(fiber.HeaderLocation))

		var stored model.Memo
		require.NoError(t, h.db.First(&stored, memo.Id).Error)
		assert.Equal(t, "edited", stored.Content)
	})

	t.Run("memos are listed oldest first", func(t *testing.T) {
		resp := h.do(http.MethodPost, bookURL(book.Id, "/memos/new"), alice, url.Values{"content": {"second"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp = h.do(http.MethodGet, bookURL(book.Id, ""), alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[dto.BookDetailResponse](t, resp)
		require.Len(t, body.Data.Memos, 2)
		assert.Equal(t, "edited", body.Data.Memos[0].Content)
		assert.Equal(t, "second", body.Data.Memos[1].Content)
	})

	t.Run("owner deletes and returns to the book", func(t *testing.T) {
		resp := h.do(http.MethodPost, memoURL+"/delete", alice, url.Values{})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, bookURL(book.Id, ""), resp.Header.Get(fiber.HeaderLocation))
		assert.EqualValues(t, 1, h.countMemos(book.Id))
	})
}

func TestDeleteBookCascades(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	book := testutil.CreateBook(t, h.db, alice, "Doomed", "Alice", "one", "two", "three")

	resp := h.do(http.MethodPost, bookURL(book.Id, "/delete"), alice, url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/books", resp.Header.Get(fiber.HeaderLocation))

	assert.EqualValues(t, 0, h.countBooks())
	assert.EqualValues(t, 0, h.countMemos(book.Id))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, bookURL(book.Id, ""), alice, nil).StatusCode)
}

func TestEditBook(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	book := testutil.CreateBook(t, h.db, alice, "Draft", "Alice")

	resp := h.do(http.MethodGet, bookURL(book.Id, "/edit"), alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	form := decode[dto.FormResponse[dto.BookFormRequest]](t, resp)
	assert.Equal(t, "Draft", form.Data.Values.Title)

	resp = h.do(http.MethodPost, bookURL(book.Id, "/edit"), alice, url.Values{
		"title":          {"Final"},
		"author":         {"Alice"},
		"published_date": {"2024-01-31"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, bookURL(book.Id, ""), resp.Header.Get(fiber.HeaderLocation))

	resp = h.do(http.MethodGet, bookURL(book.Id, ""), alice, nil)
	detail := decode[dto.BookDetailResponse](t, resp)
	assert.Equal(t, "Final", detail.Data.Book.Title)
	require.NotNil(t, detail.Data.Book.PublishedDate)
	assert.Equal(t, "2024-01-31", *detail.Data.Book.PublishedDate)
}

func sessionCookie(t *testing.T, h *harness, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == h.container.Sessions.CookieName() {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestGuestLogin(t *testing.T) {
	h := newHarness(t)

	resp := h.do(http.MethodGet, "/guest-login", entity.Anonymous(), nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/books", resp.Header.Get(fiber.HeaderLocation))
	cookie := sessionCookie(t, h, resp)
	assert.True(t, cookie.HttpOnly)

	identity, err := h.container.Sessions.Parse(cookie.Value)
	require.NoError(t, err)

	list := decode[dto.BookListResponse](t, h.do(http.MethodGet, "/books", identity, nil))
	assert.Len(t, list.Data.Items, 2)

	// A second guest login reuses the account without reseeding.
	h.do(http.MethodGet, "/guest-login", entity.Anonymous(), nil)
	assert.EqualValues(t, 2, h.countBooks())
}

func TestSignupLoginLogout(t *testing.T) {
	h := newHarness(t)

	resp := h.do(http.MethodPost, "/signup", entity.Anonymous(), url.Values{
		"email":     {"Alice@Example.com"},
		"password":  {"correct horse"},
		"full_name": {"Alice"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	sessionCookie(t, h, resp)

	t.Run("duplicate signup", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/signup", entity.Anonymous(), url.Values{
			"email":    {"alice@example.com"},
			"password": {"correct horse"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[dto.FormResponse[dto.SignupRequest]](t, resp)
		assert.Contains(t, body.Data.Errors, "email")
		assert.Empty(t, body.Data.Values.Password)
	})

	t.Run("login returns to next", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/login?next=/books/1", entity.Anonymous(), url.Values{
			"email":    {"alice@example.com"},
			"password": {"correct horse"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/books/1", resp.Header.Get(fiber.HeaderLocation))
		sessionCookie(t, h, resp)
	})

	t.Run("external next is ignored", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/login", entity.Anonymous(), url.Values{
			"email":    {"alice@example.com"},
			"password": {"correct horse"},
			"next":     {"//evil.example.com/"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/books", resp.Header.Get(fiber.HeaderLocation))
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/login", entity.Anonymous(), url.Values{
			"email":    {"alice@example.com"},
			"password": {"wrong password"},
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		resp := h.do(http.MethodPost, "/logout", entity.Anonymous(), url.Values{})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
		assert.Empty(t, sessionCookie(t, h, resp).Value)
	})
}

func TestCreateBookWithSessionForDeletedAccount(t *testing.T) {
	h := newHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice@example.com")
	require.NoError(t, h.db.Delete(&model.User{}, "id = ?", alice.UserId).Error)

	resp := h.do(http.MethodPost, "/books/new", alice, url.Values{
		"title":  {"Kokoro"},
		"author": {"Natsume Soseki"},
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 0, h.countBooks())
}
