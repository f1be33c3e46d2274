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

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgresRoleRepository
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

// Create creates a new role
func (r *PostgresRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (id, name, slug, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		role.ID,
		role.Name,
		role.Slug,
		nullStringOrValue(role.Description),
		role.Permissions,
		role.CreatedAt,
		role.UpdatedAt,
	)
	return err
}

// GetByID retrieves a role by ID
func (r *PostgresRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a role by slug
func (r *PostgresRoleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Role, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *PostgresRoleRepository) getOne(ctx context.Context, column, value string) (*domain.Role, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, '') as description,
		       COALESCE(permissions, '{}'::jsonb) as permissions, created_at, updated_at
		FROM roles
		WHERE ` + column + ` = $1
	`
	role := &domain.Role{}
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&role.ID,
		&role.Name,
		&role.Slug,
		&role.Description,
		&role.Permissions,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

// List retrieves all roles
func (r *PostgresRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	query := `
		SELECT id, name, slug, COALESCE(description, '') as description,
		       COALESCE(permissions, '{}'::jsonb) as permissions, created_at, updated_at
		FROM roles
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoles(rows)
}

// ListByUser retrieves the roles assigned to a user
func (r *PostgresRoleRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.name, r.slug, COALESCE(r.description, '') as description,
		       COALESCE(r.permissions, '{}'::jsonb) as permissions, r.created_at, r.updated_at
		FROM roles r
		JOIN role_user ru ON ru.role_id = r.id
		WHERE ru.user_id = $1
		ORDER BY r.slug
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoles(rows)
}

func scanRoles(rows pgx.Rows) ([]*domain.Role, error) {
	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role := &domain.Role{}
		err := rows.Scan(
			&role.ID,
			&role.Name,
			&role.Slug,
			&role.Description,
			&role.Permissions,
			&role.CreatedAt,
			&role.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Update updates a role
func (r *PostgresRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `
		UPDATE roles
		SET name = $2, slug = $3, description = $4, permissions = $5, updated_at = $6
		WHERE id = $1
	`
	role.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		role.ID,
		role.Name,
		role.Slug,
		nullStringOrValue(role.Description),
		role.Permissions,
		role.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("role not found")
	}

	return nil
}

// Delete removes a role and its user assignments
func (r *PostgresRoleRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM role_user WHERE role_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("role not found")
	}

	return tx.Commit(ctx)
}

// ExistsBySlug checks if a role other than excludeID claims the slug
func (r *PostgresRoleRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM roles WHERE slug = $1 AND id::text != $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists)
	return exists, err
}

// Assign grants a role to a user. Assigning an already-held role is a no-op.
func (r *PostgresRoleRepository) Assign(ctx context.Context, roleID, userID string) error {
	query := `
		INSERT INTO role_user (role_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (role_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, roleID, userID, time.Now())
	return err
}

// Remove revokes a role from a user. Removing an unheld role is a no-op.
func (r *PostgresRoleRepository) Remove(ctx context.Context, roleID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM role_user WHERE role_id = $1 AND user_id = $2`, roleID, userID)
	return err
}
