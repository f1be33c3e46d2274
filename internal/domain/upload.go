package domain

import (
	"errors"
	"fmt"
	"time"
)

// UploadStatus represents the state of a content upload
type UploadStatus string

const (
	StatusPending    UploadStatus = "pending"
	StatusProcessing UploadStatus = "processing"
	StatusPublished  UploadStatus = "published"
	StatusFailed     UploadStatus = "failed"
)

// ErrInvalidStatusTransition is returned when a status transition is not allowed
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// validTransitions defines allowed status transitions.
// Key is current status, value is list of allowed next statuses.
// failed -> pending supports manual retry.
var validTransitions = map[UploadStatus][]UploadStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusPublished, StatusFailed},
	StatusPublished:  {}, // Terminal state
	StatusFailed:     {StatusPending},
}

// IsValid reports whether the status is a known one
func (s UploadStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed
func (s UploadStatus) IsTerminal() bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the transition s -> target is allowed
func (s UploadStatus) CanTransitionTo(target UploadStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidStatusTransition when s -> target
// is not in the transition table.
func ValidateTransition(s, target UploadStatus) error {
	if !s.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, target)
	}
	return nil
}

// ContentUpload is a user-submitted file slated for publication to a
// social platform. FileName is the caller's original name; StorageKey
// is the collision-resistant object key the file is stored under.
type ContentUpload struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	SocialPlatformID string                 `json:"social_platform_id"`
	FileName         string                 `json:"file_name"`
	StorageKey       string                 `json:"file_path"`
	FileType         string                 `json:"file_type"`
	FileSize         int64                  `json:"file_size"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	Status           UploadStatus           `json:"status"`
	FailureReason    string                 `json:"failure_reason,omitempty"`
	ExternalPostID   string                 `json:"external_post_id,omitempty"`
	PublishedAt      *time.Time             `json:"published_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}
