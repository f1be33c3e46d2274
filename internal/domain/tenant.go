package domain

import (
	"time"
)

// Tenant represents an isolated customer organization owning its own
// users, connected platforms, and content.
type Tenant struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Domain    string                 `json:"domain"`
	Settings  map[string]interface{} `json:"settings,omitempty"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
