package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ashestree87/socialize/internal/domain"
)

// In-memory repository implementations backed by maps. Used in tests
// and as a zero-dependency fallback for local development.

// MemoryTenantRepository implements TenantRepository in memory
type MemoryTenantRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

// NewMemoryTenantRepository creates a new MemoryTenantRepository
func NewMemoryTenantRepository() *MemoryTenantRepository {
	return &MemoryTenantRepository{tenants: make(map[string]*domain.Tenant)}
}

func (r *MemoryTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tenants[tenant.ID]; exists {
		return fmt.Errorf("tenant %s already exists", tenant.ID)
	}
	cp := *tenant
	r.tenants[tenant.ID] = &cp
	return nil
}

func (r *MemoryTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, nil
	}
	cp := *tenant
	return &cp, nil
}

func (r *MemoryTenantRepository) GetByDomain(ctx context.Context, domainName string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tenant := range r.tenants {
		if tenant.Domain == domainName {
			cp := *tenant
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryTenantRepository) List(ctx context.Context, page, limit int, isActive *bool, search string) ([]*domain.Tenant, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Tenant, 0)
	for _, tenant := range r.tenants {
		if isActive != nil && tenant.IsActive != *isActive {
			continue
		}
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(tenant.Name), needle) &&
				!strings.Contains(strings.ToLower(tenant.Domain), needle) {
				continue
			}
		}
		cp := *tenant
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, page, limit), len(matched), nil
}

func (r *MemoryTenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[tenant.ID]; !ok {
		return fmt.Errorf("tenant not found")
	}
	tenant.UpdatedAt = time.Now()
	cp := *tenant
	r.tenants[tenant.ID] = &cp
	return nil
}

func (r *MemoryTenantRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[id]; !ok {
		return fmt.Errorf("tenant not found")
	}
	delete(r.tenants, id)
	return nil
}

func (r *MemoryTenantRepository) ExistsByDomain(ctx context.Context, domainName, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tenant := range r.tenants {
		if tenant.Domain == domainName && tenant.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// MemoryUserRepository implements UserRepository in memory
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	roles *MemoryRoleRepository
}

// NewMemoryUserRepository creates a new MemoryUserRepository. When a
// role repository is given, user lookups include assigned roles.
func NewMemoryUserRepository(roles *MemoryRoleRepository) *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User), roles: roles}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	user, ok := r.users[id]
	if !ok {
		r.mu.RUnlock()
		return nil, nil
	}
	cp := *user
	r.mu.RUnlock()

	return r.withRoles(ctx, &cp)
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	var found *domain.User
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			found = &cp
			break
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return nil, nil
	}
	return r.withRoles(ctx, found)
}

func (r *MemoryUserRepository) withRoles(ctx context.Context, user *domain.User) (*domain.User, error) {
	if r.roles == nil {
		return user, nil
	}
	assigned, err := r.roles.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = make([]domain.Role, 0, len(assigned))
	for _, role := range assigned {
		user.Roles = append(user.Roles, *role)
	}
	return user, nil
}

func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// MemoryRoleRepository implements RoleRepository in memory
type MemoryRoleRepository struct {
	mu          sync.RWMutex
	roles       map[string]*domain.Role
	assignments map[string]map[string]bool // roleID -> userID set
}

// NewMemoryRoleRepository creates a new MemoryRoleRepository
func NewMemoryRoleRepository() *MemoryRoleRepository {
	return &MemoryRoleRepository{
		roles:       make(map[string]*domain.Role),
		assignments: make(map[string]map[string]bool),
	}
}

func (r *MemoryRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.roles[role.ID]; exists {
		return fmt.Errorf("role %s already exists", role.ID)
	}
	cp := copyRole(role)
	r.roles[role.ID] = cp
	return nil
}

func (r *MemoryRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, nil
	}
	return copyRole(role), nil
}

func (r *MemoryRoleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range r.roles {
		if role.Slug == slug {
			return copyRole(role), nil
		}
	}
	return nil, nil
}

func (r *MemoryRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roles := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, copyRole(role))
	}
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].CreatedAt.Before(roles[j].CreatedAt)
	})
	return roles, nil
}

func (r *MemoryRoleRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roles := make([]*domain.Role, 0)
	for roleID, users := range r.assignments {
		if users[userID] {
			if role, ok := r.roles[roleID]; ok {
				roles = append(roles, copyRole(role))
			}
		}
	}
	sort.Slice(roles, func(i, j int) bool {
		return roles[i].Slug < roles[j].Slug
	})
	return roles, nil
}

func (r *MemoryRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[role.ID]; !ok {
		return fmt.Errorf("role not found")
	}
	role.UpdatedAt = time.Now()
	r.roles[role.ID] = copyRole(role)
	return nil
}

func (r *MemoryRoleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return fmt.Errorf("role not found")
	}
	delete(r.roles, id)
	delete(r.assignments, id)
	return nil
}

func (r *MemoryRoleRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range r.roles {
		if role.Slug == slug && role.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRoleRepository) Assign(ctx context.Context, roleID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assignments[roleID] == nil {
		r.assignments[roleID] = make(map[string]bool)
	}
	r.assignments[roleID][userID] = true
	return nil
}

func (r *MemoryRoleRepository) Remove(ctx context.Context, roleID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assignments[roleID], userID)
	return nil
}

func copyRole(role *domain.Role) *domain.Role {
	cp := *role
	cp.Permissions = make(domain.PermissionSet, len(role.Permissions))
	for k, v := range role.Permissions {
		cp.Permissions[k] = v
	}
	return &cp
}

// MemoryPlatformRepository implements PlatformRepository in memory
type MemoryPlatformRepository struct {
	mu        sync.RWMutex
	platforms map[string]*domain.SocialPlatform
}

// NewMemoryPlatformRepository creates a new MemoryPlatformRepository
func NewMemoryPlatformRepository() *MemoryPlatformRepository {
	return &MemoryPlatformRepository{platforms: make(map[string]*domain.SocialPlatform)}
}

func (r *MemoryPlatformRepository) Create(ctx context.Context, platform *domain.SocialPlatform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.platforms[platform.ID]; exists {
		return fmt.Errorf("platform %s already exists", platform.ID)
	}
	cp := copyPlatform(platform)
	r.platforms[platform.ID] = cp
	return nil
}

func (r *MemoryPlatformRepository) GetByID(ctx context.Context, id string) (*domain.SocialPlatform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	platform, ok := r.platforms[id]
	if !ok {
		return nil, nil
	}
	return copyPlatform(platform), nil
}

func (r *MemoryPlatformRepository) List(ctx context.Context, tenantID string, page, limit int, platformType string, isEnabled *bool) ([]*domain.SocialPlatform, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.SocialPlatform, 0)
	for _, platform := range r.platforms {
		if platform.TenantID != tenantID {
			continue
		}
		if platformType != "" && string(platform.PlatformType) != platformType {
			continue
		}
		if isEnabled != nil && platform.IsEnabled != *isEnabled {
			continue
		}
		matched = append(matched, copyPlatform(platform))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, page, limit), len(matched), nil
}

func (r *MemoryPlatformRepository) Update(ctx context.Context, platform *domain.SocialPlatform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.platforms[platform.ID]; !ok {
		return fmt.Errorf("platform not found")
	}
	platform.UpdatedAt = time.Now()
	r.platforms[platform.ID] = copyPlatform(platform)
	return nil
}

func (r *MemoryPlatformRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.platforms[id]; !ok {
		return fmt.Errorf("platform not found")
	}
	delete(r.platforms, id)
	return nil
}

func copyPlatform(platform *domain.SocialPlatform) *domain.SocialPlatform {
	cp := *platform
	cp.Credentials = append([]byte(nil), platform.Credentials...)
	return &cp
}

// MemoryUploadRepository implements UploadRepository in memory
type MemoryUploadRepository struct {
	mu        sync.Mutex
	uploads   map[string]*domain.ContentUpload
	platforms *MemoryPlatformRepository
}

// NewMemoryUploadRepository creates a new MemoryUploadRepository. The
// platform repository supplies the joined platform info for List.
func NewMemoryUploadRepository(platforms *MemoryPlatformRepository) *MemoryUploadRepository {
	return &MemoryUploadRepository{uploads: make(map[string]*domain.ContentUpload), platforms: platforms}
}

func (r *MemoryUploadRepository) Create(ctx context.Context, upload *domain.ContentUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.uploads[upload.ID]; exists {
		return fmt.Errorf("upload %s already exists", upload.ID)
	}
	cp := *upload
	r.uploads[upload.ID] = &cp
	return nil
}

func (r *MemoryUploadRepository) GetByID(ctx context.Context, id string) (*domain.ContentUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[id]
	if !ok {
		return nil, nil
	}
	cp := *upload
	return &cp, nil
}

func (r *MemoryUploadRepository) List(ctx context.Context, userID string, page, limit int, filter UploadFilter) ([]*UploadWithPlatform, int, error) {
	r.mu.Lock()
	matched := make([]*domain.ContentUpload, 0)
	for _, upload := range r.uploads {
		if upload.UserID != userID {
			continue
		}
		if filter.Status != "" && upload.Status != filter.Status {
			continue
		}
		if filter.SocialPlatformID != "" && upload.SocialPlatformID != filter.SocialPlatformID {
			continue
		}
		cp := *upload
		matched = append(matched, &cp)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	paged := paginate(matched, page, limit)
	result := make([]*UploadWithPlatform, 0, len(paged))
	for _, upload := range paged {
		row := &UploadWithPlatform{ContentUpload: *upload}
		if r.platforms != nil {
			platform, err := r.platforms.GetByID(ctx, upload.SocialPlatformID)
			if err != nil {
				return nil, 0, err
			}
			if platform != nil {
				row.PlatformName = platform.Name
				row.PlatformType = platform.PlatformType
			}
		}
		result = append(result, row)
	}

	return result, len(matched), nil
}

func (r *MemoryUploadRepository) ListByPlatform(ctx context.Context, platformID string) ([]*domain.ContentUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	uploads := make([]*domain.ContentUpload, 0)
	for _, upload := range r.uploads {
		if upload.SocialPlatformID == platformID {
			cp := *upload
			uploads = append(uploads, &cp)
		}
	}
	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt.Before(uploads[j].CreatedAt)
	})
	return uploads, nil
}

func (r *MemoryUploadRepository) Update(ctx context.Context, upload *domain.ContentUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.uploads[upload.ID]; !ok {
		return fmt.Errorf("upload not found")
	}
	upload.UpdatedAt = time.Now()
	cp := *upload
	r.uploads[upload.ID] = &cp
	return nil
}

func (r *MemoryUploadRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.uploads[id]; !ok {
		return fmt.Errorf("upload not found")
	}
	delete(r.uploads, id)
	return nil
}

func (r *MemoryUploadRepository) ClaimForPublish(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[id]
	if !ok || upload.Status != domain.StatusPending {
		return false, nil
	}
	upload.Status = domain.StatusProcessing
	upload.FailureReason = ""
	upload.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryUploadRepository) MarkPublished(ctx context.Context, id, externalPostID string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[id]
	if !ok || upload.Status != domain.StatusProcessing {
		return fmt.Errorf("upload %s is not processing", id)
	}
	upload.Status = domain.StatusPublished
	upload.ExternalPostID = externalPostID
	upload.PublishedAt = &publishedAt
	upload.FailureReason = ""
	upload.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUploadRepository) MarkFailed(ctx context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[id]
	if !ok || upload.Status != domain.StatusProcessing {
		return fmt.Errorf("upload %s is not processing", id)
	}
	upload.Status = domain.StatusFailed
	upload.FailureReason = reason
	upload.UpdatedAt = time.Now()
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
