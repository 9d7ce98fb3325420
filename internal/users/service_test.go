package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	nextID int64
	users  map[int64]User
	hashes map[int64]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, users: map[int64]User{}, hashes: map[int64]string{}}
}

func (m *memoryRepo) ListUsers(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepo) CreateUser(_ context.Context, name, email, passwordHash string) (int64, error) {
	id := m.nextID
	m.nextID++
	m.users[id] = User{ID: id, Name: name, Email: email, IsActive: true}
	m.hashes[id] = passwordHash
	return id, nil
}

func (m *memoryRepo) SetActive(_ context.Context, id int64, active bool) error {
	u := m.users[id]
	u.IsActive = active
	m.users[id] = u
	return nil
}

type memoryAssigner struct {
	assigned map[int64]int64
}

func (m *memoryAssigner) AssignRole(_ context.Context, userID, roleID int64) error {
	if m.assigned == nil {
		m.assigned = map[int64]int64{}
	}
	m.assigned[userID] = roleID
	return nil
}

func TestCreateHashesPasswordAndAssignsRole(t *testing.T) {
	repo := newMemoryRepo()
	assigner := &memoryAssigner{}
	svc := NewService(repo, assigner)

	id, err := svc.Create(context.Background(), CreateInput{
		Name:     "Pat Reyes",
		Email:    "pat@meridian.local",
		Password: "correct horse",
		RoleID:   7,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[id]), []byte("correct horse")))
	require.Equal(t, int64(7), assigner.assigned[id])
}

func TestCreateWithoutRoleSkipsAssignment(t *testing.T) {
	repo := newMemoryRepo()
	assigner := &memoryAssigner{}
	svc := NewService(repo, assigner)

	id, err := svc.Create(context.Background(), CreateInput{
		Name:     "Sam Chen",
		Email:    "sam@meridian.local",
		Password: "longenough",
	})
	require.NoError(t, err)
	require.Empty(t, assigner.assigned)
	require.True(t, repo.users[id].IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), CreateInput{Email: "x@y.z", Password: "longenough"})
	require.Error(t, err, "name required")

	_, err = svc.Create(context.Background(), CreateInput{Name: "X", Password: "longenough"})
	require.Error(t, err, "email required")

	_, err = svc.Create(context.Background(), CreateInput{Name: "X", Email: "x@y.z", Password: "short"})
	require.Error(t, err, "password too short")
}

func TestActivateDeactivate(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	id, err := svc.Create(context.Background(), CreateInput{Name: "X", Email: "x@y.z", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), id))
	require.False(t, repo.users[id].IsActive)

	require.NoError(t, svc.Activate(context.Background(), id))
	require.True(t, repo.users[id].IsActive)
}
