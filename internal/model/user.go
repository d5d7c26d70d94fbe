package model

import "time"

// User represents an application user record as stored in the
// `users` table. The json tags are omitted because these structs
// are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	FullName     – display name of the customer.
//	Role         – name of the role (CUSTOMER or ADMIN).
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// Role names accepted in the users.role column and in JWT claims.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)
