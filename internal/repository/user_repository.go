package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/blog-rest-api/internal/model"
)

// UserRepo is the user directory backed by the users/roles/users_roles
// tables. Every method is a single short transaction; nothing holds a tx
// across calls.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,username,email,password_hash,created_at,updated_at"

// ExistsByUsername reports whether any user holds the exact username.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username=?", username).Scan(&n)
	return n > 0, err
}

// ExistsByEmail reports whether any user holds the email (compared lowercased).
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email=?", normalizeEmail(email)).Scan(&n)
	return n > 0, err
}

// FindByUsernameOrEmail resolves a login identifier. The username match is
// exact and case-sensitive; the email match is against the lowercased
// column. Roles are loaded eagerly.
func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, identifier string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		identifier, normalizeEmail(identifier)).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return r.attachRoles(ctx, u)
}

// GetByUsername fetches a user by exact username, roles included. The
// bearer middleware calls this on every authenticated request, so a user
// deleted out-of-band invalidates in-flight tokens here.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return r.attachRoles(ctx, u)
}

// Create inserts the user and its role join rows in one transaction and
// returns the new ID. A 1062 from either unique column is mapped to the
// matching duplicate error so a registration race surfaces the same way
// as the up-front existence checks.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, username, email, password_hash) VALUES (?,?,?,?)",
		u.Name, u.Username, normalizeEmail(u.Email), u.PasswordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, mapUserDuplicate(err)
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, role := range u.Roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users_roles (user_id, role_id) VALUES (?,?)",
			id, role.ID); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindRoleByName looks up a role row by its unique name.
func (r *UserRepo) FindRoleByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM roles WHERE name=? LIMIT 1", name).
		Scan(&role.ID, &role.Name)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return role, err
}

// attachRoles loads the role set for a user with a second query instead of
// a join on the main lookup; the set is small and this keeps the row scans
// simple.
func (r *UserRepo) attachRoles(ctx context.Context, u model.User) (model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT r.id, r.name FROM roles r JOIN users_roles ur ON ur.role_id = r.id WHERE ur.user_id=?",
		u.ID)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return model.User{}, err
		}
		u.Roles = append(u.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
