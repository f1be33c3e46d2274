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

// PostgresPlatformRepository implements PlatformRepository using PostgreSQL
type PostgresPlatformRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlatformRepository creates a new PostgresPlatformRepository
func NewPostgresPlatformRepository(pool *pgxpool.Pool) *PostgresPlatformRepository {
	return &PostgresPlatformRepository{pool: pool}
}

// Create creates a new platform connection
func (r *PostgresPlatformRepository) Create(ctx context.Context, platform *domain.SocialPlatform) error {
	query := `
		INSERT INTO social_platforms (id, tenant_id, name, platform_type, credentials, settings, is_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		platform.ID,
		platform.TenantID,
		platform.Name,
		platform.PlatformType,
		platform.Credentials,
		platform.Settings,
		platform.IsEnabled,
		platform.CreatedAt,
		platform.UpdatedAt,
	)
	return err
}

// GetByID retrieves a platform by ID
func (r *PostgresPlatformRepository) GetByID(ctx context.Context, id string) (*domain.SocialPlatform, error) {
	query := `
		SELECT id, tenant_id, name, platform_type, credentials,
		       COALESCE(settings, '{}'::jsonb) as settings, is_enabled, created_at, updated_at
		FROM social_platforms
		WHERE id = $1
	`
	platform := &domain.SocialPlatform{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&platform.ID,
		&platform.TenantID,
		&platform.Name,
		&platform.PlatformType,
		&platform.Credentials,
		&platform.Settings,
		&platform.IsEnabled,
		&platform.CreatedAt,
		&platform.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return platform, nil
}

// List retrieves a tenant's platforms with pagination and filters
func (r *PostgresPlatformRepository) List(ctx context.Context, tenantID string, page, limit int, platformType string, isEnabled *bool) ([]*domain.SocialPlatform, int, error) {
	whereClause := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	argIndex := 2

	if platformType != "" {
		whereClause += fmt.Sprintf(" AND platform_type = $%d", argIndex)
		args = append(args, platformType)
		argIndex++
	}

	if isEnabled != nil {
		whereClause += fmt.Sprintf(" AND is_enabled = $%d", argIndex)
		args = append(args, *isEnabled)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM social_platforms %s", whereClause)
	var totalCount int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`
		SELECT id, tenant_id, name, platform_type, credentials,
		       COALESCE(settings, '{}'::jsonb) as settings, is_enabled, created_at, updated_at
		FROM social_platforms
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	platforms := make([]*domain.SocialPlatform, 0)
	for rows.Next() {
		platform := &domain.SocialPlatform{}
		err := rows.Scan(
			&platform.ID,
			&platform.TenantID,
			&platform.Name,
			&platform.PlatformType,
			&platform.Credentials,
			&platform.Settings,
			&platform.IsEnabled,
			&platform.CreatedAt,
			&platform.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		platforms = append(platforms, platform)
	}

	return platforms, totalCount, nil
}

// Update updates a platform
func (r *PostgresPlatformRepository) Update(ctx context.Context, platform *domain.SocialPlatform) error {
	query := `
		UPDATE social_platforms
		SET name = $2, credentials = $3, settings = $4, is_enabled = $5, updated_at = $6
		WHERE id = $1
	`
	platform.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		platform.ID,
		platform.Name,
		platform.Credentials,
		platform.Settings,
		platform.IsEnabled,
		platform.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("platform not found")
	}

	return nil
}

// Delete removes a platform
func (r *PostgresPlatformRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM social_platforms WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("platform not found")
	}

	return nil
}
