package users

import "time"

// User represents a user account for management.
type User struct {
	ID        int64
	Email     string
	Name      string
	IsActive  bool
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput carries a new account request into the service.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	RoleID   int64
}
