package models

import "time"

type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserUpdate carries the fields the auth service is allowed to mutate on an
// existing user. Nil means leave unchanged.
type UserUpdate struct {
	IsVerified   *bool
	PasswordHash *string
	Role         *string
}
