package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/blog-rest-api/internal/auth"
	"github.com/iliyamo/blog-rest-api/internal/model"
	"github.com/iliyamo/blog-rest-api/internal/repository"
	"github.com/iliyamo/blog-rest-api/internal/utils"
)

// fakeDirectory is an in-memory UserDirectory for service tests.
type fakeDirectory struct {
	users     map[string]model.User // keyed by username
	roles     map[string]model.Role
	createErr error
	nextID    uint64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users: map[string]model.User{},
		roles: map[string]model.Role{model.RoleUser: {ID: 1, Name: model.RoleUser}},
	}
}

func (f *fakeDirectory) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeDirectory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDirectory) FindByUsernameOrEmail(_ context.Context, identifier string) (model.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeDirectory) Create(_ context.Context, u model.User) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.Username] = u
	return u.ID, nil
}

func (f *fakeDirectory) FindRoleByName(_ context.Context, name string) (model.Role, error) {
	r, ok := f.roles[name]
	if !ok {
		return model.Role{}, repository.ErrNotFound
	}
	return r, nil
}

func testCodec(t *testing.T) *auth.Codec {
	t.Helper()
	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	c, err := auth.NewCodec(secret, 60000)
	require.NoError(t, err)
	return c
}

func seedUser(t *testing.T, dir *fakeDirectory, username, email, password string) {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	dir.users[username] = model.User{
		ID:           uint64(len(dir.users) + 1),
		Name:         username,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []model.Role{{ID: 1, Name: model.RoleUser}},
	}
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	seedUser(t, dir, "alice", "a@x.io", "p")
	codec := testCodec(t)
	svc := NewAuthService(dir, codec, bcrypt.MinCost)

	for _, identifier := range []string{"alice", "a@x.io"} {
		tok, err := svc.Login(context.Background(), identifier, "p")
		require.NoError(t, err, "identifier %q", identifier)

		subject, err := codec.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject, "token subject is always the username")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	seedUser(t, dir, "alice", "a@x.io", "p")
	svc := NewAuthService(dir, testCodec(t), bcrypt.MinCost)

	// Unknown user and wrong password must be indistinguishable.
	_, err := svc.Login(context.Background(), "nobody", "p")
	assert.ErrorIs(t, err, auth.ErrBadCredentials)

	_, err = svc.Login(context.Background(), "alice", "q")
	assert.ErrorIs(t, err, auth.ErrBadCredentials)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	svc := NewAuthService(dir, testCodec(t), bcrypt.MinCost)

	msg, err := svc.Register(context.Background(), "Alice", "alice", "a@x.io", "p")
	require.NoError(t, err)
	assert.Equal(t, RegisteredMessage, msg)

	u := dir.users["alice"]
	assert.NotEqual(t, "p", u.PasswordHash, "password must be stored hashed")
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "p"))
	require.Len(t, u.Roles, 1)
	assert.Equal(t, model.RoleUser, u.Roles[0].Name)
}

func TestRegister_Duplicates(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	seedUser(t, dir, "alice", "a@x.io", "p")
	svc := NewAuthService(dir, testCodec(t), bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "A", "alice", "b@x.io", "p")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	_, err = svc.Register(context.Background(), "A", "fresh", "a@x.io", "p")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestRegister_RaceSurfacesStoreDuplicate(t *testing.T) {
	t.Parallel()

	// The existence checks pass but the insert loses a race: the store's
	// duplicate-key error is authoritative and flows through unchanged.
	dir := newFakeDirectory()
	dir.createErr = repository.ErrDuplicateEmail
	svc := NewAuthService(dir, testCodec(t), bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "A", "alice", "a@x.io", "p")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestRegister_MissingDefaultRole(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	delete(dir.roles, model.RoleUser)
	svc := NewAuthService(dir, testCodec(t), bcrypt.MinCost)

	_, err := svc.Register(context.Background(), "A", "alice", "a@x.io", "p")
	assert.ErrorIs(t, err, auth.ErrMisconfigured)
}
