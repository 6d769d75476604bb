package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is a firm employee. Password holds a bcrypt hash and is stripped
// before the record leaves the store for the session slot or the API.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       UserRole   `json:"role"`
	Status     UserStatus `json:"status"`
	IsActive   bool       `json:"isActive"`
	Department string     `json:"department,omitempty"`
	Password   string     `json:"password,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// WithoutPassword returns a copy safe to hand out.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// UserPatch is a shallow partial update; nil fields are left untouched.
type UserPatch struct {
	Name       *string
	Email      *string
	Role       *UserRole
	Status     *UserStatus
	IsActive   *bool
	Department *string
	Password   *string
	LastLogin  *time.Time
}
