package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// RoleAssigner grants a role to a user.
type RoleAssigner interface {
	AssignRole(ctx context.Context, userID, roleID int64) error
}

// Service handles user management business logic.
type Service struct {
	repo  RepositoryPort
	roles RoleAssigner
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleAssigner) *Service {
	return &Service{repo: repo, roles: roles}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// Create registers an account and optionally assigns a role.
func (s *Service) Create(ctx context.Context, input CreateInput) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" {
		return 0, errors.New("users: name and email required")
	}
	if len(input.Password) < 8 {
		return 0, errors.New("users: password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateUser(ctx, input.Name, input.Email, string(hash))
	if err != nil {
		return 0, err
	}
	if input.RoleID > 0 && s.roles != nil {
		if err := s.roles.AssignRole(ctx, id, input.RoleID); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// Deactivate disables an account without deleting its history.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

// Activate re-enables an account.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}
