package model

import "time"

// User represents an application user record as stored in the `users`
// table together with the roles loaded through the `users_roles` join.
// The json tags are omitted because these structs are used internally by
// the repository layer; handlers define separate response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name (free text).
//  Username     – unique, case-sensitive login name; also the JWT subject.
//  Email        – unique email address, stored lowercased.
//  PasswordHash – bcrypt hashed password.
//  Roles        – role rows joined for this user; never empty after creation.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Roles        []Role    // joined via users_roles
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RoleNames returns the names of the user's roles, in join order. The
// bearer middleware copies this slice onto the request principal.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Role represents a row in the `roles` table. Roles are provisioned
// out-of-band and only ever read by the service; the row named RoleUser
// must exist for registration to work.
//
// Fields:
//  ID   – numeric identifier of the role.
//  Name – unique role name (e.g. ROLE_USER, ROLE_ADMIN).
type Role struct {
	ID   uint64 // roles.id
	Name string // roles.name
}

// Well-known role names referenced by the authorizer.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)
