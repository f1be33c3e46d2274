package dto

// CreatePlatformRequest represents request to connect a social platform
// account. Credentials are encrypted before storage and never returned.
type CreatePlatformRequest struct {
	Name         string                 `json:"name" binding:"required,min=2,max=255"`
	PlatformType string                 `json:"platform_type" binding:"required,oneof=twitter facebook instagram linkedin tiktok youtube"`
	Credentials  map[string]string      `json:"credentials" binding:"required"`
	Settings     map[string]interface{} `json:"settings" binding:"omitempty"`
	IsEnabled    *bool                  `json:"is_enabled" binding:"omitempty"`
}

// UpdatePlatformRequest represents request to update a connected platform
type UpdatePlatformRequest struct {
	Name        *string                 `json:"name" binding:"omitempty,min=2,max=255"`
	Credentials *map[string]string      `json:"credentials" binding:"omitempty"`
	Settings    *map[string]interface{} `json:"settings" binding:"omitempty"`
	IsEnabled   *bool                   `json:"is_enabled" binding:"omitempty"`
}

// Validate validates that at least one field is provided for update
func (r *UpdatePlatformRequest) Validate() (bool, string) {
	if r.Name == nil && r.Credentials == nil && r.Settings == nil && r.IsEnabled == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// PlatformResponse represents platform data in response. Credentials
// are intentionally absent.
type PlatformResponse struct {
	ID           string                 `json:"id"`
	TenantID     string                 `json:"tenant_id"`
	Name         string                 `json:"name"`
	PlatformType string                 `json:"platform_type"`
	Settings     map[string]interface{} `json:"settings,omitempty"`
	IsEnabled    bool                   `json:"is_enabled"`
	CreatedAt    string                 `json:"created_at"`
	UpdatedAt    string                 `json:"updated_at"`
}

// ListPlatformsQuery represents query parameters for listing platforms
type ListPlatformsQuery struct {
	Page         int    `form:"page" binding:"omitempty,min=1"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	PlatformType string `form:"platform_type" binding:"omitempty,oneof=twitter facebook instagram linkedin tiktok youtube"`
	IsEnabled    *bool  `form:"is_enabled" binding:"omitempty"`
}

// SetDefaults sets default values for query parameters
func (q *ListPlatformsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

// ListPlatformsResponse represents paginated list of platforms
type ListPlatformsResponse struct {
	Platforms  []PlatformResponse `json:"platforms"`
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
