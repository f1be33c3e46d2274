package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashestree87/socialize/internal/domain"
)

const uploadColumns = `
	id, user_id, social_platform_id, file_name, storage_key, file_type, file_size,
	COALESCE(metadata, '{}'::jsonb) as metadata, status, COALESCE(failure_reason, '') as failure_reason,
	COALESCE(external_post_id, '') as external_post_id, published_at, created_at, updated_at
`

// PostgresUploadRepository implements UploadRepository using PostgreSQL
type PostgresUploadRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUploadRepository creates a new PostgresUploadRepository
func NewPostgresUploadRepository(pool *pgxpool.Pool) *PostgresUploadRepository {
	return &PostgresUploadRepository{pool: pool}
}

// Create creates a new upload record
func (r *PostgresUploadRepository) Create(ctx context.Context, upload *domain.ContentUpload) error {
	query := `
		INSERT INTO content_uploads (id, user_id, social_platform_id, file_name, storage_key,
		                             file_type, file_size, metadata, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		upload.ID,
		upload.UserID,
		upload.SocialPlatformID,
		upload.FileName,
		upload.StorageKey,
		upload.FileType,
		upload.FileSize,
		upload.Metadata,
		upload.Status,
		upload.CreatedAt,
		upload.UpdatedAt,
	)
	return err
}

// GetByID retrieves an upload by ID
func (r *PostgresUploadRepository) GetByID(ctx context.Context, id string) (*domain.ContentUpload, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_uploads WHERE id = $1`, uploadColumns)

	upload := &domain.ContentUpload{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&upload.ID,
		&upload.UserID,
		&upload.SocialPlatformID,
		&upload.FileName,
		&upload.StorageKey,
		&upload.FileType,
		&upload.FileSize,
		&upload.Metadata,
		&upload.Status,
		&upload.FailureReason,
		&upload.ExternalPostID,
		&upload.PublishedAt,
		&upload.CreatedAt,
		&upload.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return upload, nil
}

// List retrieves a user's uploads joined with platform info
func (r *PostgresUploadRepository) List(ctx context.Context, userID string, page, limit int, filter UploadFilter) ([]*UploadWithPlatform, int, error) {
	whereClause := "WHERE cu.user_id = $1"
	args := []interface{}{userID}
	argIndex := 2

	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND cu.status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.SocialPlatformID != "" {
		whereClause += fmt.Sprintf(" AND cu.social_platform_id = $%d", argIndex)
		args = append(args, filter.SocialPlatformID)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM content_uploads cu %s", whereClause)
	var totalCount int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`
		SELECT cu.id, cu.user_id, cu.social_platform_id, cu.file_name, cu.storage_key,
		       cu.file_type, cu.file_size, COALESCE(cu.metadata, '{}'::jsonb) as metadata,
		       cu.status, COALESCE(cu.failure_reason, '') as failure_reason,
		       COALESCE(cu.external_post_id, '') as external_post_id, cu.published_at,
		       cu.created_at, cu.updated_at,
		       sp.name as platform_name, sp.platform_type
		FROM content_uploads cu
		JOIN social_platforms sp ON sp.id = cu.social_platform_id
		%s
		ORDER BY cu.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	uploads := make([]*UploadWithPlatform, 0)
	for rows.Next() {
		u := &UploadWithPlatform{}
		err := rows.Scan(
			&u.ID,
			&u.UserID,
			&u.SocialPlatformID,
			&u.FileName,
			&u.StorageKey,
			&u.FileType,
			&u.FileSize,
			&u.Metadata,
			&u.Status,
			&u.FailureReason,
			&u.ExternalPostID,
			&u.PublishedAt,
			&u.CreatedAt,
			&u.UpdatedAt,
			&u.PlatformName,
			&u.PlatformType,
		)
		if err != nil {
			return nil, 0, err
		}
		uploads = append(uploads, u)
	}

	return uploads, totalCount, nil
}

// ListByPlatform retrieves every upload targeting a platform
func (r *PostgresUploadRepository) ListByPlatform(ctx context.Context, platformID string) ([]*domain.ContentUpload, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_uploads WHERE social_platform_id = $1 ORDER BY created_at`, uploadColumns)

	rows, err := r.pool.Query(ctx, query, platformID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := make([]*domain.ContentUpload, 0)
	for rows.Next() {
		upload := &domain.ContentUpload{}
		err := rows.Scan(
			&upload.ID,
			&upload.UserID,
			&upload.SocialPlatformID,
			&upload.FileName,
			&upload.StorageKey,
			&upload.FileType,
			&upload.FileSize,
			&upload.Metadata,
			&upload.Status,
			&upload.FailureReason,
			&upload.ExternalPostID,
			&upload.PublishedAt,
			&upload.CreatedAt,
			&upload.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}

	return uploads, nil
}

// Update updates an upload record
func (r *PostgresUploadRepository) Update(ctx context.Context, upload *domain.ContentUpload) error {
	query := `
		UPDATE content_uploads
		SET file_name = $2, metadata = $3, status = $4, failure_reason = $5,
		    external_post_id = $6, published_at = $7, updated_at = $8
		WHERE id = $1
	`
	upload.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		upload.ID,
		upload.FileName,
		upload.Metadata,
		upload.Status,
		nullStringOrValue(upload.FailureReason),
		nullStringOrValue(upload.ExternalPostID),
		upload.PublishedAt,
		upload.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload not found")
	}

	return nil
}

// Delete removes an upload record
func (r *PostgresUploadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM content_uploads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload not found")
	}

	return nil
}

// ClaimForPublish atomically moves a pending upload to processing. The
// status precondition in the WHERE clause guarantees a single winner
// under concurrent claims.
func (r *PostgresUploadRepository) ClaimForPublish(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE content_uploads
		SET status = $2, failure_reason = NULL, updated_at = $3
		WHERE id = $1 AND status = $4
	`
	result, err := r.pool.Exec(ctx, query, id, domain.StatusProcessing, time.Now(), domain.StatusPending)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// MarkPublished finalizes a processing upload as published
func (r *PostgresUploadRepository) MarkPublished(ctx context.Context, id, externalPostID string, publishedAt time.Time) error {
	query := `
		UPDATE content_uploads
		SET status = $2, external_post_id = $3, published_at = $4, failure_reason = NULL, updated_at = $5
		WHERE id = $1 AND status = $6
	`
	result, err := r.pool.Exec(ctx, query, id, domain.StatusPublished, externalPostID, publishedAt, time.Now(), domain.StatusProcessing)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload %s is not processing", id)
	}
	return nil
}

// MarkFailed finalizes a processing upload as failed with a reason
func (r *PostgresUploadRepository) MarkFailed(ctx context.Context, id, reason string) error {
	query := `
		UPDATE content_uploads
		SET status = $2, failure_reason = $3, updated_at = $4
		WHERE id = $1 AND status = $5
	`
	result, err := r.pool.Exec(ctx, query, id, domain.StatusFailed, reason, time.Now(), domain.StatusProcessing)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload %s is not processing", id)
	}
	return nil
}
