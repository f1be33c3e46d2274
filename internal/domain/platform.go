package domain

import (
	"time"
)

// PlatformType identifies a supported social network integration
type PlatformType string

const (
	PlatformTypeTwitter   PlatformType = "twitter"
	PlatformTypeFacebook  PlatformType = "facebook"
	PlatformTypeInstagram PlatformType = "instagram"
	PlatformTypeLinkedIn  PlatformType = "linkedin"
	PlatformTypeTikTok    PlatformType = "tiktok"
	PlatformTypeYouTube   PlatformType = "youtube"
)

// SocialPlatform is a connected third-party account through which
// content is published. Credentials are stored encrypted and are never
// included in API representations.
type SocialPlatform struct {
	ID           string                 `json:"id"`
	TenantID     string                 `json:"tenant_id"`
	Name         string                 `json:"name"`
	PlatformType PlatformType           `json:"platform_type"`
	// Credentials holds the AES-GCM ciphertext of the account credentials
	Credentials []byte                 `json:"-"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
	IsEnabled   bool                   `json:"is_enabled"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}
