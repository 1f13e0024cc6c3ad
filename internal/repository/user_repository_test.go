package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-rest-api/internal/model"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func userRows(u model.User) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(u.ID, u.Name, u.Username, u.Email, u.PasswordHash, now, now)
}

func TestExistsByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE username=\?`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByEmail_Lowercases(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email=\?`).
		WithArgs("a@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.ExistsByEmail(context.Background(), "  A@X.IO ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_WithRoles(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\? LIMIT 1`).
		WithArgs("alice").
		WillReturnRows(userRows(model.User{ID: 7, Name: "Alice", Username: "alice", Email: "a@x.io", PasswordHash: "h"}))
	mock.ExpectQuery(`SELECT r\.id, r\.name FROM roles r JOIN users_roles ur`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, model.RoleUser).
			AddRow(2, model.RoleAdmin))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, []string{model.RoleUser, model.RoleAdmin}, u.RoleNames())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username=\? LIMIT 1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "created_at", "updated_at"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_MapsDuplicateKey(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr error
	}{
		{"username", "Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'", ErrDuplicateUsername},
		{"email", "Error 1062 (23000): Duplicate entry 'a@x.io' for key 'users.email'", ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO users`).
				WillReturnError(errors.New(tt.driver))
			mock.ExpectRollback()

			_, err := repo.Create(context.Background(), model.User{
				Name: "Alice", Username: "alice", Email: "a@x.io", PasswordHash: "h",
				Roles: []model.Role{{ID: 1, Name: model.RoleUser}},
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_InsertsUserAndRoles(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Alice", "alice", "a@x.io", "h").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`INSERT INTO users_roles`).
		WithArgs(int64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), model.User{
		Name: "Alice", Username: "alice", Email: "A@X.IO", PasswordHash: "h",
		Roles: []model.Role{{ID: 1, Name: model.RoleUser}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRoleByName(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT id,name FROM roles WHERE name=\? LIMIT 1`).
		WithArgs(model.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, model.RoleUser))

	role, err := repo.FindRoleByName(context.Background(), model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role.Name)

	repo2, mock2 := newMockRepo(t)
	mock2.ExpectQuery(`SELECT id,name FROM roles WHERE name=\? LIMIT 1`).
		WithArgs("ROLE_GHOST").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err = repo2.FindRoleByName(context.Background(), "ROLE_GHOST")
	assert.ErrorIs(t, err, ErrNotFound)
}
