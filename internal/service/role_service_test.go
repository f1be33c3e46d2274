package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
)

func newRoleFixture(t *testing.T) (RoleService, *repository.MemoryRoleRepository, *repository.MemoryUserRepository) {
	t.Helper()
	roleRepo := repository.NewMemoryRoleRepository()
	userRepo := repository.NewMemoryUserRepository(roleRepo)
	return NewRoleService(roleRepo, userRepo), roleRepo, userRepo
}

func TestRoleService_Create_DerivesSlug(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRoleFixture(t)

	resp, err := svc.Create(ctx, &dto.CreateRoleRequest{
		Name:        "Content  Manager!",
		Description: "Manages content",
		Permissions: map[string]bool{"manage_content": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "content-manager", resp.Slug)
	assert.True(t, resp.Permissions["manage_content"])
	assert.False(t, resp.IsSystem)
}

func TestRoleService_Create_SlugConflict(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRoleFixture(t)

	_, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Editor"})
	require.NoError(t, err)

	// Different names can still collapse to the same slug
	_, err = svc.Create(ctx, &dto.CreateRoleRequest{Name: "EDITOR!"})
	assert.ErrorIs(t, err, ErrRoleSlugTaken)
}

func TestRoleService_Create_UnknownCapability(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRoleFixture(t)

	_, err := svc.Create(ctx, &dto.CreateRoleRequest{
		Name:        "Hacker",
		Permissions: map[string]bool{"manage_everything": true},
	})
	assert.ErrorIs(t, err, ErrUnknownCapability)
}

func TestRoleService_Update_RenameRederivesSlug(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRoleFixture(t)

	created, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Editor"})
	require.NoError(t, err)

	newName := "Senior Editor"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateRoleRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "senior-editor", updated.Slug)
}

func TestRoleService_Update_SlugConflict(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRoleFixture(t)

	_, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Editor"})
	require.NoError(t, err)

	other, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Reviewer"})
	require.NoError(t, err)

	conflicting := "Editor"
	_, err = svc.Update(ctx, other.ID, &dto.UpdateRoleRequest{Name: &conflicting})
	assert.ErrorIs(t, err, ErrRoleSlugTaken)
}

func TestRoleService_Delete_SystemRole(t *testing.T) {
	ctx := context.Background()
	svc, roleRepo, _ := newRoleFixture(t)

	admin := &domain.Role{
		ID:          uuid.New().String(),
		Name:        "Admin",
		Slug:        domain.RoleSlugAdmin,
		Permissions: domain.PermissionSet{},
	}
	require.NoError(t, roleRepo.Create(ctx, admin))

	err := svc.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrSystemRole)
}

func TestRoleService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRoleFixture(t)

	created, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Temporary"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestRoleService_AssignRemove(t *testing.T) {
	ctx := context.Background()
	svc, roleRepo, userRepo := newRoleFixture(t)

	role, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Editor"})
	require.NoError(t, err)

	user := &domain.User{ID: uuid.New().String(), Name: "Jordan", Email: "jordan@example.com"}
	require.NoError(t, userRepo.Create(ctx, user))

	// Assigning twice leaves a single assignment
	require.NoError(t, svc.Assign(ctx, role.ID, user.ID))
	require.NoError(t, svc.Assign(ctx, role.ID, user.ID))

	roles, err := roleRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	// Removing twice is equally safe
	require.NoError(t, svc.Remove(ctx, role.ID, user.ID))
	require.NoError(t, svc.Remove(ctx, role.ID, user.ID))

	roles, err = roleRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestRoleService_Assign_MissingTargets(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := newRoleFixture(t)

	role, err := svc.Create(ctx, &dto.CreateRoleRequest{Name: "Editor"})
	require.NoError(t, err)

	err = svc.Assign(ctx, role.ID, uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)

	user := &domain.User{ID: uuid.New().String(), Name: "Jordan", Email: "jordan@example.com"}
	require.NoError(t, userRepo.Create(ctx, user))

	err = svc.Assign(ctx, uuid.New().String(), user.ID)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
