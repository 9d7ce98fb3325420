package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
)

// Directory exposes the role and permission administration operations.
type Directory interface {
	ListRoles(ctx context.Context) ([]rbac.Role, error)
	CreateRole(ctx context.Context, name, description string) (rbac.Role, error)
	DeleteRole(ctx context.Context, id int64) error
	ListPermissions(ctx context.Context) ([]rbac.Permission, error)
	SetRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}

// Service handles role management business logic.
type Service struct {
	directory Directory
}

// NewService builds Service instance.
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	return s.directory.ListRoles(ctx)
}

// ListPermissions returns all known permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	return s.directory.ListPermissions(ctx)
}

// CreateRole creates a role and grants it the named permissions.
func (s *Service) CreateRole(ctx context.Context, name, description string, permissionNames []string) (rbac.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return rbac.Role{}, errors.New("roles: name required")
	}

	role, err := s.directory.CreateRole(ctx, name, description)
	if err != nil {
		return rbac.Role{}, err
	}
	if len(permissionNames) == 0 {
		return role, nil
	}

	all, err := s.directory.ListPermissions(ctx)
	if err != nil {
		return rbac.Role{}, err
	}
	wanted := make(map[string]bool, len(permissionNames))
	for _, n := range permissionNames {
		wanted[n] = true
	}
	var ids []int64
	for _, p := range all {
		if wanted[p.Name] {
			ids = append(ids, p.ID)
		}
	}
	if err := s.directory.SetRolePermissions(ctx, role.ID, ids); err != nil {
		return rbac.Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.directory.DeleteRole(ctx, id)
}
