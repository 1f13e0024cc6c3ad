package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-rest-api/internal/repository"
)

func newPostHandler(t *testing.T) (*PostHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostHandler(repository.NewPostRepo(db), repository.NewCategoryRepo(db)), mock
}

func postRows(ids ...uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "content", "category_id", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "title", "a description..", "body", 1, now, now)
	}
	return rows
}

func serveGet(h echo.HandlerFunc, target string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestList_PaginationEnvelope(t *testing.T) {
	h, mock := newPostHandler(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT .+ FROM posts ORDER BY title DESC LIMIT \? OFFSET \?`).
		WithArgs(5, 5).
		WillReturnRows(postRows(7, 6, 5, 4, 3))

	rec, err := serveGet(h.List, "/api/post?pageNo=1&pageSize=5&sortBy=title&sortDir=desc")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Content       []json.RawMessage `json:"content"`
		PageNo        int               `json:"pageNo"`
		PageSize      int               `json:"pageSize"`
		TotalElements int64             `json:"totalElements"`
		TotalPages    int               `json:"totalPages"`
		Last          bool              `json:"last"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Content, 5)
	assert.Equal(t, 1, resp.PageNo)
	assert.Equal(t, 5, resp.PageSize)
	assert.Equal(t, int64(12), resp.TotalElements)
	assert.Equal(t, 3, resp.TotalPages)
	assert.False(t, resp.Last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_LastPage(t *testing.T) {
	h, mock := newPostHandler(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT .+ FROM posts ORDER BY id ASC LIMIT \? OFFSET \?`).
		WithArgs(5, 10).
		WillReturnRows(postRows(11, 12))

	rec, err := serveGet(h.List, "/api/post?pageNo=2&pageSize=5")
	require.NoError(t, err)

	var resp postPageResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Last)
	assert.Len(t, resp.Content, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OutOfRangeParamsFallBackToDefaults(t *testing.T) {
	h, mock := newPostHandler(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// pageSize above the cap and a negative pageNo fall back to 10 / 0, and
	// an unknown sort column falls back to id.
	mock.ExpectQuery(`SELECT .+ FROM posts ORDER BY id ASC LIMIT \? OFFSET \?`).
		WithArgs(10, 0).
		WillReturnRows(postRows())

	rec, err := serveGet(h.List, "/api/post?pageNo=-3&pageSize=500&sortBy=password_hash&sortDir=asc")
	require.NoError(t, err)

	var resp postPageResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.PageNo)
	assert.Equal(t, 10, resp.PageSize)
	assert.True(t, resp.Last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"short title", `{"title":"x","description":"long enough here","content":"c","categoryId":1}`,
			"The title should have at least 2 characters"},
		{"short description", `{"title":"ok","description":"short","content":"c","categoryId":1}`,
			"The description should have at least 10 characters"},
		{"missing content", `{"title":"ok","description":"long enough here","content":" ","categoryId":1}`,
			"content is required"},
		{"missing category", `{"title":"ok","description":"long enough here","content":"c"}`,
			"categoryId is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newPostHandler(t)
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/post", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			err := h.Create(e.NewContext(req, rec))

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestCreatePost_UnknownCategoryIs404(t *testing.T) {
	h, mock := newPostHandler(t)
	mock.ExpectQuery(`SELECT .+ FROM categories WHERE id=\? LIMIT 1`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}))

	e := echo.New()
	body := `{"title":"ok","description":"long enough here","content":"c","categoryId":9}`
	req := httptest.NewRequest(http.MethodPost, "/api/post", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Create(e.NewContext(req, rec))

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "Category not found with id : '9'", err.Error())
}
