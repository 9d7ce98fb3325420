package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/rbac"
)

type memoryDirectory struct {
	nextRoleID  int64
	roles       map[int64]rbac.Role
	permissions []rbac.Permission
	granted     map[int64][]int64
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{
		nextRoleID: 1,
		roles:      map[int64]rbac.Role{},
		granted:    map[int64][]int64{},
	}
}

func (m *memoryDirectory) ListRoles(_ context.Context) ([]rbac.Role, error) {
	out := make([]rbac.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryDirectory) CreateRole(_ context.Context, name, description string) (rbac.Role, error) {
	role := rbac.Role{ID: m.nextRoleID, Name: name, Description: description}
	m.nextRoleID++
	m.roles[role.ID] = role
	return role, nil
}

func (m *memoryDirectory) DeleteRole(_ context.Context, id int64) error {
	delete(m.roles, id)
	return nil
}

func (m *memoryDirectory) ListPermissions(_ context.Context) ([]rbac.Permission, error) {
	return m.permissions, nil
}

func (m *memoryDirectory) SetRolePermissions(_ context.Context, roleID int64, permissionIDs []int64) error {
	m.granted[roleID] = permissionIDs
	return nil
}

func TestCreateRoleGrantsNamedPermissions(t *testing.T) {
	dir := newMemoryDirectory()
	dir.permissions = []rbac.Permission{
		{ID: 10, Name: rbac.PermProcurementView},
		{ID: 11, Name: rbac.PermProcurementEdit},
		{ID: 12, Name: rbac.PermInventoryView},
	}
	svc := NewService(dir)

	role, err := svc.CreateRole(context.Background(), "buyer", "procurement staff", []string{
		rbac.PermProcurementView,
		rbac.PermProcurementEdit,
		"no.such.permission",
	})
	require.NoError(t, err)
	require.Equal(t, "buyer", role.Name)
	require.ElementsMatch(t, []int64{10, 11}, dir.granted[role.ID])
}

func TestCreateRoleWithoutPermissions(t *testing.T) {
	dir := newMemoryDirectory()
	svc := NewService(dir)

	role, err := svc.CreateRole(context.Background(), "viewer", "", nil)
	require.NoError(t, err)
	require.NotZero(t, role.ID)
	require.Empty(t, dir.granted[role.ID])
}

func TestCreateRoleRequiresName(t *testing.T) {
	svc := NewService(newMemoryDirectory())

	_, err := svc.CreateRole(context.Background(), "   ", "", nil)
	require.Error(t, err)
}

func TestDeleteRole(t *testing.T) {
	dir := newMemoryDirectory()
	svc := NewService(dir)

	role, err := svc.CreateRole(context.Background(), "temp", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRole(context.Background(), role.ID))

	roles, err := svc.ListRoles(context.Background())
	require.NoError(t, err)
	require.Empty(t, roles)
}
