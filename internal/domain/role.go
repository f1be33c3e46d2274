package domain

import (
	"regexp"
	"strings"
	"time"
)

// Capability is a named permission a role can grant. The set is closed:
// unknown capabilities are rejected at role create/update time.
type Capability string

const (
	CapManageTenants         Capability = "manage_tenants"
	CapManageUsers           Capability = "manage_users"
	CapManageRoles           Capability = "manage_roles"
	CapManageSocialPlatforms Capability = "manage_social_platforms"
	CapManageContent         Capability = "manage_content"
)

// AllCapabilities lists every known capability
var AllCapabilities = []Capability{
	CapManageTenants,
	CapManageUsers,
	CapManageRoles,
	CapManageSocialPlatforms,
	CapManageContent,
}

// IsValid reports whether the capability is a known one
func (c Capability) IsValid() bool {
	for _, known := range AllCapabilities {
		if c == known {
			return true
		}
	}
	return false
}

// PermissionSet maps capabilities to granted/denied
type PermissionSet map[Capability]bool

// Grants reports whether the set grants the given capability
func (p PermissionSet) Grants(c Capability) bool {
	return p[c]
}

// System role slugs. Roles with these slugs cannot be deleted.
const (
	RoleSlugAdmin = "admin"
	RoleSlugUser  = "user"
)

// Role is a named bundle of permissions assignable to users
type Role struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Permissions PermissionSet `json:"permissions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsSystem reports whether the role is undeletable
func (r *Role) IsSystem() bool {
	return r.Slug == RoleSlugAdmin || r.Slug == RoleSlugUser
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugHyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a role slug from its name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
