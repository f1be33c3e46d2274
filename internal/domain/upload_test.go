package domain

import (
	"errors"
	"testing"
)

func TestUploadStatusIsValid(t *testing.T) {
	tests := []struct {
		status   UploadStatus
		expected bool
	}{
		{StatusPending, true},
		{StatusProcessing, true},
		{StatusPublished, true},
		{StatusFailed, true},
		{UploadStatus("archived"), false},
		{UploadStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUploadStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   UploadStatus
		expected bool
	}{
		{StatusPending, false},
		{StatusProcessing, false},
		{StatusPublished, true},
		{StatusFailed, false}, // failed allows manual retry
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUploadStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     UploadStatus
		to       UploadStatus
		expected bool
	}{
		// From pending
		{"pending -> processing", StatusPending, StatusProcessing, true},
		{"pending -> published", StatusPending, StatusPublished, false},
		{"pending -> failed", StatusPending, StatusFailed, false},

		// From processing
		{"processing -> published", StatusProcessing, StatusPublished, true},
		{"processing -> failed", StatusProcessing, StatusFailed, true},
		{"processing -> pending", StatusProcessing, StatusPending, false},

		// From published (terminal)
		{"published -> pending", StatusPublished, StatusPending, false},
		{"published -> failed", StatusPublished, StatusFailed, false},

		// From failed (manual retry)
		{"failed -> pending", StatusFailed, StatusPending, true},
		{"failed -> published", StatusFailed, StatusPublished, false},
		{"failed -> processing", StatusFailed, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expected {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusPending, StatusProcessing); err != nil {
		t.Errorf("ValidateTransition(pending, processing) = %v, want nil", err)
	}

	err := ValidateTransition(StatusPublished, StatusPending)
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("ValidateTransition(published, pending) = %v, want ErrInvalidStatusTransition", err)
	}
}
