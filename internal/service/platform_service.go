package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/crypto"
	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/repository"
	"github.com/ashestree87/socialize/internal/storage"
	"github.com/ashestree87/socialize/pkg/logger"
)

var (
	ErrPlatformNotFound = errors.New("social platform not found")
	ErrPlatformDisabled = errors.New("social platform is disabled")
)

// PlatformService defines the interface for social platform management
type PlatformService interface {
	// Create connects a new platform account for the tenant
	Create(ctx context.Context, tenantID string, req *dto.CreatePlatformRequest) (*dto.PlatformResponse, error)
	// GetByID retrieves a tenant's platform by ID
	GetByID(ctx context.Context, tenantID, id string) (*dto.PlatformResponse, error)
	// List retrieves a tenant's platforms with pagination and filters
	List(ctx context.Context, tenantID string, query *dto.ListPlatformsQuery) (*dto.ListPlatformsResponse, error)
	// Update updates a platform. New credentials replace the old
	// ciphertext entirely.
	Update(ctx context.Context, tenantID, id string, req *dto.UpdatePlatformRequest) (*dto.PlatformResponse, error)
	// Delete disconnects a platform together with its uploads and
	// their stored files
	Delete(ctx context.Context, tenantID, id string) error
	// Credentials decrypts a platform's stored credentials
	Credentials(ctx context.Context, id string) (map[string]string, error)
}

// platformService implements PlatformService
type platformService struct {
	platformRepo repository.PlatformRepository
	uploadRepo   repository.UploadRepository
	encryptor    *crypto.Encryptor
	store        storage.Driver
}

// NewPlatformService creates a new PlatformService
func NewPlatformService(
	platformRepo repository.PlatformRepository,
	uploadRepo repository.UploadRepository,
	encryptor *crypto.Encryptor,
	store storage.Driver,
) PlatformService {
	return &platformService{
		platformRepo: platformRepo,
		uploadRepo:   uploadRepo,
		encryptor:    encryptor,
		store:        store,
	}
}

// Create connects a new platform account for the tenant
func (s *platformService) Create(ctx context.Context, tenantID string, req *dto.CreatePlatformRequest) (*dto.PlatformResponse, error) {
	ciphertext, err := s.encryptor.EncryptMap(req.Credentials)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	platform := &domain.SocialPlatform{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         req.Name,
		PlatformType: domain.PlatformType(req.PlatformType),
		Credentials:  ciphertext,
		Settings:     req.Settings,
		IsEnabled:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsEnabled != nil {
		platform.IsEnabled = *req.IsEnabled
	}
	if platform.Settings == nil {
		platform.Settings = make(map[string]interface{})
	}

	if err := s.platformRepo.Create(ctx, platform); err != nil {
		return nil, err
	}

	return toPlatformResponse(platform), nil
}

// GetByID retrieves a tenant's platform by ID
func (s *platformService) GetByID(ctx context.Context, tenantID, id string) (*dto.PlatformResponse, error) {
	platform, err := s.tenantPlatform(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toPlatformResponse(platform), nil
}

// List retrieves a tenant's platforms with pagination and filters
func (s *platformService) List(ctx context.Context, tenantID string, query *dto.ListPlatformsQuery) (*dto.ListPlatformsResponse, error) {
	query.SetDefaults()

	platforms, totalCount, err := s.platformRepo.List(ctx, tenantID, query.Page, query.Limit, query.PlatformType, query.IsEnabled)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PlatformResponse, 0, len(platforms))
	for _, platform := range platforms {
		responses = append(responses, *toPlatformResponse(platform))
	}

	return &dto.ListPlatformsResponse{
		Platforms:  responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

// Update updates a platform
func (s *platformService) Update(ctx context.Context, tenantID, id string, req *dto.UpdatePlatformRequest) (*dto.PlatformResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	platform, err := s.tenantPlatform(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		platform.Name = *req.Name
	}
	if req.Credentials != nil {
		ciphertext, err := s.encryptor.EncryptMap(*req.Credentials)
		if err != nil {
			return nil, err
		}
		platform.Credentials = ciphertext
	}
	if req.Settings != nil {
		platform.Settings = *req.Settings
	}
	if req.IsEnabled != nil {
		platform.IsEnabled = *req.IsEnabled
	}

	if err := s.platformRepo.Update(ctx, platform); err != nil {
		return nil, err
	}

	return toPlatformResponse(platform), nil
}

// Delete disconnects a platform. Uploads targeting it are removed
// together with their stored files; a file that fails to delete is
// logged and skipped so the disconnect still completes.
func (s *platformService) Delete(ctx context.Context, tenantID, id string) error {
	platform, err := s.tenantPlatform(ctx, tenantID, id)
	if err != nil {
		return err
	}

	uploads, err := s.uploadRepo.ListByPlatform(ctx, platform.ID)
	if err != nil {
		return err
	}

	for _, upload := range uploads {
		if err := s.store.Delete(ctx, upload.StorageKey); err != nil {
			logger.WithContext(ctx).Warn("failed to delete stored file during platform disconnect",
				zap.String("upload_id", upload.ID),
				zap.String("storage_key", upload.StorageKey),
				zap.Error(err),
			)
		}
		if err := s.uploadRepo.Delete(ctx, upload.ID); err != nil {
			return err
		}
	}

	return s.platformRepo.Delete(ctx, platform.ID)
}

// Credentials decrypts a platform's stored credentials
func (s *platformService) Credentials(ctx context.Context, id string) (map[string]string, error) {
	platform, err := s.platformRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotFound
	}
	return s.encryptor.DecryptMap(platform.Credentials)
}

// tenantPlatform loads a platform and checks tenant ownership. An
// existing platform owned by another tenant is reported as not found.
func (s *platformService) tenantPlatform(ctx context.Context, tenantID, id string) (*domain.SocialPlatform, error) {
	platform, err := s.platformRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if platform == nil || platform.TenantID != tenantID {
		return nil, ErrPlatformNotFound
	}
	return platform, nil
}

// toPlatformResponse converts domain.SocialPlatform to dto.PlatformResponse
func toPlatformResponse(platform *domain.SocialPlatform) *dto.PlatformResponse {
	return &dto.PlatformResponse{
		ID:           platform.ID,
		TenantID:     platform.TenantID,
		Name:         platform.Name,
		PlatformType: string(platform.PlatformType),
		Settings:     platform.Settings,
		IsEnabled:    platform.IsEnabled,
		CreatedAt:    platform.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    platform.UpdatedAt.Format(time.RFC3339),
	}
}
