package dto

import "time"

// CreateUploadRequest carries the multipart form fields accompanying
// the uploaded file
type CreateUploadRequest struct {
	SocialPlatformID string `form:"social_platform_id" binding:"required,uuid"`
	Metadata         string `form:"metadata" binding:"omitempty"`
}

// UpdateUploadRequest represents request to update an upload record
type UpdateUploadRequest struct {
	FileName *string                 `json:"file_name" binding:"omitempty,min=1,max=255"`
	Metadata *map[string]interface{} `json:"metadata" binding:"omitempty"`
	Status   *string                 `json:"status" binding:"omitempty,oneof=pending processing published failed"`
	// PublishedAt is honored only together with a transition to published
	PublishedAt *time.Time `json:"published_at" binding:"omitempty"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateUploadRequest) Validate() (bool, string) {
	if r.FileName == nil && r.Metadata == nil && r.Status == nil {
		return false, "At least one field must be provided for update"
	}
	if r.PublishedAt != nil && (r.Status == nil || *r.Status != "published") {
		return false, "published_at requires status published"
	}
	return true, ""
}

// UploadResponse represents upload data in response
type UploadResponse struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	SocialPlatformID string                 `json:"social_platform_id"`
	PlatformName     string                 `json:"platform_name,omitempty"`
	PlatformType     string                 `json:"platform_type,omitempty"`
	FileName         string                 `json:"file_name"`
	FileType         string                 `json:"file_type"`
	FileSize         int64                  `json:"file_size"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	Status           string                 `json:"status"`
	FailureReason    string                 `json:"failure_reason,omitempty"`
	ExternalPostID   string                 `json:"external_post_id,omitempty"`
	PublishedAt      string                 `json:"published_at,omitempty"`
	CreatedAt        string                 `json:"created_at"`
	UpdatedAt        string                 `json:"updated_at"`
}

// DownloadURLResponse carries a time-limited download link
type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// PublishResponse acknowledges that publication has been queued
type PublishResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListUploadsQuery represents query parameters for listing uploads.
// UserID lets admins inspect another user's uploads.
type ListUploadsQuery struct {
	Page             int    `form:"page" binding:"omitempty,min=1"`
	Limit            int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status           string `form:"status" binding:"omitempty,oneof=pending processing published failed"`
	SocialPlatformID string `form:"social_platform_id" binding:"omitempty,uuid"`
	UserID           string `form:"user_id" binding:"omitempty,uuid"`
}

// SetDefaults sets default values for query parameters
func (q *ListUploadsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

// ListUploadsResponse represents paginated list of uploads
type ListUploadsResponse struct {
	Uploads    []UploadResponse `json:"uploads"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}
