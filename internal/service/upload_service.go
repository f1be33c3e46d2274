package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/crypto"
	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/internal/dto"
	"github.com/ashestree87/socialize/internal/lease"
	"github.com/ashestree87/socialize/internal/publisher"
	"github.com/ashestree87/socialize/internal/queue"
	"github.com/ashestree87/socialize/internal/repository"
	"github.com/ashestree87/socialize/internal/storage"
	"github.com/ashestree87/socialize/pkg/logger"
)

var (
	ErrUploadNotFound     = errors.New("content upload not found")
	ErrUploadAccessDenied = errors.New("content upload belongs to another user")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrUploadNotPending   = errors.New("only pending uploads can be published")
	ErrStorageCleanup     = errors.New("failed to delete stored file")
)

// UploadConfig holds content upload settings
type UploadConfig struct {
	// MaxFileSize caps uploads in bytes
	MaxFileSize int64
	// SignedURLTTL is how long download links stay valid
	SignedURLTTL time.Duration
	// LeaseTTL bounds how long a publish attempt may hold its lease
	LeaseTTL time.Duration
	// LeaseKeyPrefix namespaces publish lease keys
	LeaseKeyPrefix string
}

// DefaultUploadConfig returns sensible upload defaults
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MaxFileSize:    100 * 1024 * 1024,
		SignedURLTTL:   15 * time.Minute,
		LeaseTTL:       2 * time.Minute,
		LeaseKeyPrefix: "publish:lease:",
	}
}

// CreateUploadParams carries a validated incoming file
type CreateUploadParams struct {
	SocialPlatformID string
	FileName         string
	FileType         string
	FileSize         int64
	Metadata         map[string]interface{}
	Content          io.Reader
}

// UploadService defines the interface for the content upload lifecycle
type UploadService interface {
	// Create stores the file and records a pending upload
	Create(ctx context.Context, userID string, params *CreateUploadParams) (*dto.UploadResponse, error)
	// GetByID retrieves an upload owned by the user
	GetByID(ctx context.Context, userID, id string) (*dto.UploadResponse, error)
	// List retrieves the user's uploads with pagination and filters
	List(ctx context.Context, userID string, query *dto.ListUploadsQuery) (*dto.ListUploadsResponse, error)
	// Update updates an upload. Status changes follow the transition table.
	Update(ctx context.Context, userID, id string, req *dto.UpdateUploadRequest) (*dto.UploadResponse, error)
	// Delete removes an upload and its stored file
	Delete(ctx context.Context, userID, id string) error
	// DownloadURL issues a time-limited link to the stored file
	DownloadURL(ctx context.Context, userID, id string) (*dto.DownloadURLResponse, error)
	// Publish queues a pending upload for publication
	Publish(ctx context.Context, userID, id string) (*dto.PublishResponse, error)
	// ProcessPublish performs one queued publication. Called by workers.
	ProcessPublish(ctx context.Context, job *queue.Job) error
}

// uploadService implements UploadService
type uploadService struct {
	uploadRepo   repository.UploadRepository
	platformRepo repository.PlatformRepository
	store        storage.Driver
	encryptor    *crypto.Encryptor
	publishQueue queue.PublishQueue
	leases       lease.Lease
	registry     *publisher.Registry
	retryConfig  publisher.RetryConfig
	config       UploadConfig
}

// NewUploadService creates a new UploadService
func NewUploadService(
	uploadRepo repository.UploadRepository,
	platformRepo repository.PlatformRepository,
	store storage.Driver,
	encryptor *crypto.Encryptor,
	publishQueue queue.PublishQueue,
	leases lease.Lease,
	registry *publisher.Registry,
	retryConfig publisher.RetryConfig,
	config UploadConfig,
) UploadService {
	if config.MaxFileSize == 0 {
		config.MaxFileSize = DefaultUploadConfig().MaxFileSize
	}
	if config.SignedURLTTL == 0 {
		config.SignedURLTTL = DefaultUploadConfig().SignedURLTTL
	}
	if config.LeaseTTL == 0 {
		config.LeaseTTL = DefaultUploadConfig().LeaseTTL
	}
	if config.LeaseKeyPrefix == "" {
		config.LeaseKeyPrefix = DefaultUploadConfig().LeaseKeyPrefix
	}
	return &uploadService{
		uploadRepo:   uploadRepo,
		platformRepo: platformRepo,
		store:        store,
		encryptor:    encryptor,
		publishQueue: publishQueue,
		leases:       leases,
		registry:     registry,
		retryConfig:  retryConfig,
		config:       config,
	}
}

// Create stores the file and records a pending upload
func (s *uploadService) Create(ctx context.Context, userID string, params *CreateUploadParams) (*dto.UploadResponse, error) {
	if params.FileSize > s.config.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	platform, err := s.platformRepo.GetByID(ctx, params.SocialPlatformID)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotFound
	}

	key := s.storageKey(userID, platform.ID, params.FileName)
	if err := s.store.Upload(ctx, key, params.Content); err != nil {
		return nil, err
	}

	now := time.Now()
	upload := &domain.ContentUpload{
		ID:               uuid.New().String(),
		UserID:           userID,
		SocialPlatformID: platform.ID,
		FileName:         params.FileName,
		StorageKey:       key,
		FileType:         params.FileType,
		FileSize:         params.FileSize,
		Metadata:         params.Metadata,
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if upload.Metadata == nil {
		upload.Metadata = make(map[string]interface{})
	}

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		// The record is the source of truth; an orphaned file must not
		// outlive a failed insert.
		if cleanupErr := s.store.Delete(ctx, key); cleanupErr != nil {
			logger.WithContext(ctx).Warn("failed to clean up stored file after insert failure",
				zap.String("storage_key", key),
				zap.Error(cleanupErr),
			)
		}
		return nil, err
	}

	return toUploadResponse(upload, platform.Name, platform.PlatformType), nil
}

// GetByID retrieves an upload owned by the user
func (s *uploadService) GetByID(ctx context.Context, userID, id string) (*dto.UploadResponse, error) {
	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	platform, err := s.platformRepo.GetByID(ctx, upload.SocialPlatformID)
	if err != nil {
		return nil, err
	}

	var platformName string
	var platformType domain.PlatformType
	if platform != nil {
		platformName = platform.Name
		platformType = platform.PlatformType
	}
	return toUploadResponse(upload, platformName, platformType), nil
}

// List retrieves the user's uploads with pagination and filters
func (s *uploadService) List(ctx context.Context, userID string, query *dto.ListUploadsQuery) (*dto.ListUploadsResponse, error) {
	query.SetDefaults()

	filter := repository.UploadFilter{
		Status:           domain.UploadStatus(query.Status),
		SocialPlatformID: query.SocialPlatformID,
	}
	rows, totalCount, err := s.uploadRepo.List(ctx, userID, query.Page, query.Limit, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UploadResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, *toUploadResponse(&row.ContentUpload, row.PlatformName, row.PlatformType))
	}

	return &dto.ListUploadsResponse{
		Uploads:    responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

// Update updates an upload. Status changes follow the transition table.
func (s *uploadService) Update(ctx context.Context, userID, id string, req *dto.UpdateUploadRequest) (*dto.UploadResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		target := domain.UploadStatus(*req.Status)
		if target != upload.Status {
			if err := domain.ValidateTransition(upload.Status, target); err != nil {
				return nil, err
			}
			upload.Status = target
			if target == domain.StatusPending {
				upload.FailureReason = ""
			}
			if target == domain.StatusPublished {
				switch {
				case req.PublishedAt != nil:
					upload.PublishedAt = req.PublishedAt
				case upload.PublishedAt == nil:
					now := time.Now()
					upload.PublishedAt = &now
				}
			}
		}
	}
	if req.FileName != nil {
		upload.FileName = *req.FileName
	}
	if req.Metadata != nil {
		upload.Metadata = *req.Metadata
	}

	if err := s.uploadRepo.Update(ctx, upload); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, userID, id)
}

// Delete removes an upload and its stored file. The file goes first;
// if that fails the record stays so the object is never orphaned.
func (s *uploadService) Delete(ctx context.Context, userID, id string) error {
	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, upload.StorageKey); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageCleanup, err)
	}

	return s.uploadRepo.Delete(ctx, upload.ID)
}

// DownloadURL issues a time-limited link to the stored file
func (s *uploadService) DownloadURL(ctx context.Context, userID, id string) (*dto.DownloadURLResponse, error) {
	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.SignedURL(ctx, upload.StorageKey, s.config.SignedURLTTL)
	if err != nil {
		return nil, err
	}

	return &dto.DownloadURLResponse{
		URL:       url,
		ExpiresIn: int64(s.config.SignedURLTTL.Seconds()),
	}, nil
}

// Publish queues a pending upload for publication
func (s *uploadService) Publish(ctx context.Context, userID, id string) (*dto.PublishResponse, error) {
	upload, err := s.ownedUpload(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upload.Status != domain.StatusPending {
		return nil, ErrUploadNotPending
	}

	platform, err := s.platformRepo.GetByID(ctx, upload.SocialPlatformID)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotFound
	}
	if !platform.IsEnabled {
		return nil, ErrPlatformDisabled
	}

	job := &queue.Job{
		UploadID:   upload.ID,
		Attempt:    1,
		EnqueuedAt: time.Now(),
	}
	if err := s.publishQueue.Enqueue(ctx, job); err != nil {
		return nil, err
	}

	return &dto.PublishResponse{
		ID:     upload.ID,
		Status: string(domain.StatusPending),
	}, nil
}

// ProcessPublish performs one queued publication. The lease keeps
// replicas off the same upload; the claim's status precondition makes
// double delivery harmless.
func (s *uploadService) ProcessPublish(ctx context.Context, job *queue.Job) error {
	leaseKey := s.config.LeaseKeyPrefix + job.UploadID
	token, acquired, err := s.leases.Acquire(ctx, leaseKey, s.config.LeaseTTL)
	if err != nil {
		return err
	}
	if !acquired {
		logger.WithContext(ctx).Info("publish lease held elsewhere, skipping",
			zap.String("upload_id", job.UploadID),
		)
		return nil
	}
	defer func() {
		if err := s.leases.Release(context.WithoutCancel(ctx), leaseKey, token); err != nil {
			logger.WithContext(ctx).Warn("failed to release publish lease",
				zap.String("upload_id", job.UploadID),
				zap.Error(err),
			)
		}
	}()

	claimed, err := s.uploadRepo.ClaimForPublish(ctx, job.UploadID)
	if err != nil {
		return err
	}
	if !claimed {
		logger.WithContext(ctx).Info("upload not pending, skipping publish",
			zap.String("upload_id", job.UploadID),
		)
		return nil
	}

	upload, err := s.uploadRepo.GetByID(ctx, job.UploadID)
	if err != nil {
		return err
	}
	if upload == nil {
		return ErrUploadNotFound
	}

	result, err := s.deliver(ctx, upload)
	if err != nil {
		if markErr := s.uploadRepo.MarkFailed(ctx, upload.ID, err.Error()); markErr != nil {
			return markErr
		}
		logger.WithContext(ctx).Warn("publish failed",
			zap.String("upload_id", upload.ID),
			zap.Int("attempt", job.Attempt),
			zap.Error(err),
		)
		return nil
	}

	if err := s.uploadRepo.MarkPublished(ctx, upload.ID, result.ExternalPostID, time.Now()); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("upload published",
		zap.String("upload_id", upload.ID),
		zap.String("external_post_id", result.ExternalPostID),
	)
	return nil
}

// deliver posts a claimed upload through its platform's publisher
func (s *uploadService) deliver(ctx context.Context, upload *domain.ContentUpload) (*publisher.Result, error) {
	platform, err := s.platformRepo.GetByID(ctx, upload.SocialPlatformID)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotFound
	}
	if !platform.IsEnabled {
		return nil, ErrPlatformDisabled
	}

	credentials, err := s.encryptor.DecryptMap(platform.Credentials)
	if err != nil {
		return nil, err
	}

	pub, err := s.registry.Get(platform.PlatformType)
	if err != nil {
		return nil, err
	}

	req := &publisher.Request{
		Upload:         upload,
		PlatformName:   platform.Name,
		Credentials:    credentials,
		IdempotencyKey: upload.ID,
	}
	return publisher.NewRetryingPublisher(pub, s.retryConfig).Publish(ctx, req)
}

// ownedUpload loads an upload and checks ownership
func (s *uploadService) ownedUpload(ctx context.Context, userID, id string) (*domain.ContentUpload, error) {
	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrUploadNotFound
	}
	if upload.UserID != userID {
		return nil, ErrUploadAccessDenied
	}
	return upload, nil
}

// storageKey builds a collision-resistant object key preserving the
// original file extension
func (s *uploadService) storageKey(userID, platformID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s/%s%s", userID, platformID, uuid.New().String(), ext)
}

// toUploadResponse converts an upload row to dto.UploadResponse
func toUploadResponse(upload *domain.ContentUpload, platformName string, platformType domain.PlatformType) *dto.UploadResponse {
	resp := &dto.UploadResponse{
		ID:               upload.ID,
		UserID:           upload.UserID,
		SocialPlatformID: upload.SocialPlatformID,
		PlatformName:     platformName,
		PlatformType:     string(platformType),
		FileName:         upload.FileName,
		FileType:         upload.FileType,
		FileSize:         upload.FileSize,
		Metadata:         upload.Metadata,
		Status:           string(upload.Status),
		FailureReason:    upload.FailureReason,
		ExternalPostID:   upload.ExternalPostID,
		CreatedAt:        upload.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        upload.UpdatedAt.Format(time.RFC3339),
	}
	if upload.PublishedAt != nil {
		resp.PublishedAt = upload.PublishedAt.Format(time.RFC3339)
	}
	return resp
}
