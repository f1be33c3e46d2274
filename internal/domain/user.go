package domain

import (
	"time"
)

// User represents a tenant member
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TenantID     string    `json:"tenant_id,omitempty"`
	Roles        []Role    `json:"roles,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleSlugs returns the slugs of the user's roles
func (u *User) RoleSlugs() []string {
	slugs := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		slugs = append(slugs, r.Slug)
	}
	return slugs
}

// HasRole reports whether the user holds a role with the given slug
func (u *User) HasRole(slug string) bool {
	for _, r := range u.Roles {
		if r.Slug == slug {
			return true
		}
	}
	return false
}
