// Package models holds the credential service's domain types.
package models

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleStandardUser  Role = "standard-user"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStandardUser || r == RoleAdministrator
}

// Account is a registered identity. It is never mutated after creation.
type Account struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// PublicAccount is the client-facing view of an Account.
type PublicAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (a *Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
