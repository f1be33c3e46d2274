package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
)

func TestTenantService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	resp, err := svc.Create(ctx, &dto.CreateTenantRequest{
		Name:   "Acme Media",
		Domain: "acme.example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Acme Media", resp.Name)
	assert.Equal(t, "acme.example.com", resp.Domain)
	assert.True(t, resp.IsActive)
}

func TestTenantService_Create_DomainTaken(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	_, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "First", Domain: "same.example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &dto.CreateTenantRequest{Name: "Second", Domain: "same.example.com"})
	assert.ErrorIs(t, err, ErrTenantDomainTaken)
}

func TestTenantService_Update_KeepOwnDomain(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	created, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "Acme", Domain: "acme.example.com"})
	require.NoError(t, err)

	// Resubmitting the current domain is not a conflict
	sameDomain := "acme.example.com"
	newName := "Acme Renamed"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateTenantRequest{Name: &newName, Domain: &sameDomain})
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", updated.Name)
	assert.Equal(t, "acme.example.com", updated.Domain)
}

func TestTenantService_Update_DomainConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	_, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "First", Domain: "first.example.com"})
	require.NoError(t, err)

	second, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "Second", Domain: "second.example.com"})
	require.NoError(t, err)

	taken := "first.example.com"
	_, err = svc.Update(ctx, second.ID, &dto.UpdateTenantRequest{Domain: &taken})
	assert.ErrorIs(t, err, ErrTenantDomainTaken)
}

func TestTenantService_Update_NoFields(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	created, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "Acme", Domain: "acme.example.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, &dto.UpdateTenantRequest{})
	assert.Error(t, err)
}

func TestTenantService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	_, err := svc.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrTenantNotFound)

	err = svc.Delete(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTenantService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	created, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "Acme", Domain: "acme.example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTenantService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewTenantService(repository.NewMemoryTenantRepository())

	_, err := svc.Create(ctx, &dto.CreateTenantRequest{Name: "Acme", Domain: "acme.example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreateTenantRequest{Name: "Globex", Domain: "globex.example.com"})
	require.NoError(t, err)

	list, err := svc.List(ctx, &dto.ListTenantsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
	assert.Len(t, list.Tenants, 2)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 1, list.TotalPages)

	list, err = svc.List(ctx, &dto.ListTenantsQuery{Search: "glob"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "Globex", list.Tenants[0].Name)
}
