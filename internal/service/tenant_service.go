package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
)

var (
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrTenantDomainTaken = errors.New("tenant with this domain already exists")
)

// TenantService defines the interface for tenant management operations
type TenantService interface {
	// Create creates a new tenant
	Create(ctx context.Context, req *dto.CreateTenantRequest) (*dto.TenantResponse, error)
	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id string) (*dto.TenantResponse, error)
	// List retrieves tenants with pagination and filters
	List(ctx context.Context, query *dto.ListTenantsQuery) (*dto.ListTenantsResponse, error)
	// Update updates a tenant
	Update(ctx context.Context, id string, req *dto.UpdateTenantRequest) (*dto.TenantResponse, error)
	// Delete removes a tenant
	Delete(ctx context.Context, id string) error
}

// tenantService implements TenantService
type tenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo repository.TenantRepository) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
	}
}

// Create creates a new tenant
func (s *tenantService) Create(ctx context.Context, req *dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	exists, err := s.tenantRepo.ExistsByDomain(ctx, req.Domain, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTenantDomainTaken
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Domain:    req.Domain,
		Settings:  req.Settings,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tenant.Settings == nil {
		tenant.Settings = make(map[string]interface{})
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	return s.toTenantResponse(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *tenantService) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return s.toTenantResponse(tenant), nil
}

// List retrieves tenants with pagination and filters
func (s *tenantService) List(ctx context.Context, query *dto.ListTenantsQuery) (*dto.ListTenantsResponse, error) {
	query.SetDefaults()

	tenants, totalCount, err := s.tenantRepo.List(ctx, query.Page, query.Limit, query.IsActive, query.Search)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		responses = append(responses, *s.toTenantResponse(tenant))
	}

	return &dto.ListTenantsResponse{
		Tenants:    responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

// Update updates a tenant. Changing the domain to one held by another
// tenant fails; keeping the current domain is always allowed.
func (s *tenantService) Update(ctx context.Context, id string, req *dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	if req.Domain != nil && *req.Domain != tenant.Domain {
		exists, err := s.tenantRepo.ExistsByDomain(ctx, *req.Domain, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrTenantDomainTaken
		}
		tenant.Domain = *req.Domain
	}
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Settings != nil {
		tenant.Settings = *req.Settings
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	return s.toTenantResponse(tenant), nil
}

// Delete removes a tenant
func (s *tenantService) Delete(ctx context.Context, id string) error {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tenant == nil {
		return ErrTenantNotFound
	}
	return s.tenantRepo.Delete(ctx, id)
}

// toTenantResponse converts domain.Tenant to dto.TenantResponse
func (s *tenantService) toTenantResponse(tenant *domain.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Domain:    tenant.Domain,
		Settings:  tenant.Settings,
		IsActive:  tenant.IsActive,
		CreatedAt: tenant.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tenant.UpdatedAt.Format(time.RFC3339),
	}
}
