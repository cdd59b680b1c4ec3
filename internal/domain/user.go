package domain

import "time"

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleDriver UserRole = "driver"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Requester is the authenticated caller of an operation.
type Requester struct {
	UserID int64
	Role   UserRole
}

func (r Requester) IsAdmin() bool { return r.Role == RoleAdmin }
