package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnknownUser = errors.New("unknown user")
var ErrForbidden = errors.New("access forbidden")

// User models an employee loaded from the credential registry.
// Immutable once loaded; the registry is read-only at runtime.
type User struct {
	Username     string    `json:"username"`
	EmployeeID   string    `json:"employee_id"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name"`
	Department   string    `json:"department"`
	Position     string    `json:"position,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user may access the analytics dashboard.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
