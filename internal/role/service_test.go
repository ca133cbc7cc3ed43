// AngelaMos | 2026
// service_test.go

package role

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/testutil"
)

type memRepo struct {
	mu    sync.Mutex
	roles map[string]Role
	links map[string]map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		roles: map[string]Role{},
		links: map[string]map[string]bool{},
	}
}

func (m *memRepo) WithTx(core.DBTX) Repository { return m }

func (m *memRepo) List(context.Context) ([]Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &r, nil
}

func (m *memRepo) GetByName(_ context.Context, name string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == name {
			return &r, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Create(_ context.Context, role *Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == role.Name {
			return core.ErrDuplicateKey
		}
	}
	m.roles[role.ID] = *role
	return nil
}

func (m *memRepo) Save(_ context.Context, role *Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.roles[role.ID]; ok {
		role.CreatedAt = existing.CreatedAt
		role.CreatedBy = existing.CreatedBy
	}
	m.roles[role.ID] = *role
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *memRepo) Count(context.Context) (int, error) {
	return len(m.roles), nil
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Role{}
	for roleID := range m.links[userID] {
		out = append(out, m.roles[roleID])
	}
	return out, nil
}

func (m *memRepo) AssignToUser(_ context.Context, userID, roleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links[userID] == nil {
		m.links[userID] = map[string]bool{}
	}
	if m.links[userID][roleID] {
		return false, nil
	}
	m.links[userID][roleID] = true
	return true, nil
}

func (m *memRepo) RemoveFromUser(_ context.Context, userID, roleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.links[userID][roleID] {
		return false, nil
	}
	delete(m.links[userID], roleID)
	return true, nil
}

func (m *memRepo) RemoveAllAssignments(_ context.Context, roleID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, set := range m.links {
		if set[roleID] {
			delete(set, roleID)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CountAssignments(_ context.Context, roleID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, set := range m.links {
		if set[roleID] {
			n++
		}
	}
	return n, nil
}

func newTestService(policy string) (*Service, *memRepo, *testutil.Tx) {
	repo := newMemRepo()
	tx := &testutil.Tx{}
	return NewService(repo, tx, testutil.Clock(), policy), repo, tx
}

func TestCreateAndGetRole(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)
	ctx := core.WithActor(context.Background(), "admin-1")

	created, err := svc.CreateRole(ctx, &Role{Name: "AUDITOR", Description: "read only"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, testutil.Now, created.CreatedAt)
	assert.Equal(t, "admin-1", created.CreatedBy)

	byID, err := svc.GetRoleByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, byID.Name)
	assert.Equal(t, created.Description, byID.Description)

	byName, err := svc.GetRoleByName(ctx, "AUDITOR")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestCreateRoleDuplicateNameFromStorage(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, &Role{Name: "USER"})
	require.NoError(t, err)

	_, err = svc.CreateRole(ctx, &Role{Name: "USER"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.True(t, core.HasCode(err, core.CodeDuplicate))
}

func TestGetRoleNotFound(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)

	_, err := svc.GetRoleByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.GetRoleByName(context.Background(), "USER")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateRoleOverwritesAndUpserts(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)
	ctx := context.Background()

	created, err := svc.CreateRole(ctx, &Role{Name: "SUPPORT", Description: "old"})
	require.NoError(t, err)

	updated, err := svc.UpdateRole(ctx, created.ID, &Role{Name: "SUPPORT_L2"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "SUPPORT_L2", updated.Name)
	assert.Empty(t, updated.Description)

	upserted, err := svc.UpdateRole(ctx, "fresh-id", &Role{Name: "NEW"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-id", upserted.ID)

	got, err := svc.GetRoleByID(ctx, "fresh-id")
	require.NoError(t, err)
	assert.Equal(t, "NEW", got.Name)
}

func TestAssignAndRemoveAreIdempotentAtStorageLevel(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)
	ctx := context.Background()

	r, err := svc.CreateRole(ctx, &Role{Name: "USER"})
	require.NoError(t, err)

	inserted, err := svc.AssignRoleToUser(ctx, "u1", r.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = svc.AssignRoleToUser(ctx, "u1", r.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	roles, err := svc.GetRolesByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	removed, err := svc.RemoveRoleFromUser(ctx, "u1", r.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveRoleFromUser(ctx, "u1", r.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAssignUnknownRole(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)

	_, err := svc.AssignRoleToUser(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.RemoveRoleFromUser(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetRolesByUserIDEmpty(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteCascade)

	roles, err := svc.GetRolesByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestDeleteRoleCascade(t *testing.T) {
	svc, repo, tx := newTestService(config.RoleDeleteCascade)
	ctx := context.Background()

	r, err := svc.CreateRole(ctx, &Role{Name: "TEMP"})
	require.NoError(t, err)
	_, err = svc.AssignRoleToUser(ctx, "u1", r.ID)
	require.NoError(t, err)
	_, err = svc.AssignRoleToUser(ctx, "u2", r.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRole(ctx, r.ID))
	assert.Equal(t, 1, tx.Calls)

	n, _ := repo.CountAssignments(ctx, r.ID)
	assert.Zero(t, n)

	_, err = svc.GetRoleByID(ctx, r.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteRoleRestrict(t *testing.T) {
	svc, _, _ := newTestService(config.RoleDeleteRestrict)
	ctx := context.Background()

	r, err := svc.CreateRole(ctx, &Role{Name: "TEMP"})
	require.NoError(t, err)
	_, err = svc.AssignRoleToUser(ctx, "u1", r.ID)
	require.NoError(t, err)

	err = svc.DeleteRole(ctx, r.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBusinessRule)
	assert.True(t, core.HasCode(err, "ROLE_IN_USE"))

	_, err = svc.RemoveRoleFromUser(ctx, "u1", r.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRole(ctx, r.ID))
}

func TestDeleteRoleNotFound(t *testing.T) {
	svc, _, tx := newTestService(config.RoleDeleteCascade)

	err := svc.DeleteRole(context.Background(), "missing")
	require.Error(t, err)

	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, core.CodeNotFound, appErr.Code)
	assert.Zero(t, tx.Calls)
}
