package publisher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/pkg/logger"
)

// ErrMissingCredentials is returned when a publish request carries no
// credentials
var ErrMissingCredentials = errors.New("missing platform credentials")

// SimulatedPublisher stands in for a real platform integration. It
// derives the external post ID from the idempotency key, so repeated
// publishes of the same upload yield the same post.
type SimulatedPublisher struct {
	platformType domain.PlatformType
}

// NewSimulatedPublisher creates a simulated publisher for one platform type
func NewSimulatedPublisher(platformType domain.PlatformType) *SimulatedPublisher {
	return &SimulatedPublisher{platformType: platformType}
}

// Publish simulates posting the upload
func (p *SimulatedPublisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Credentials) == 0 {
		return nil, ErrMissingCredentials
	}

	digest := sha256.Sum256([]byte(req.IdempotencyKey))
	postID := fmt.Sprintf("%s-%s", p.platformType, hex.EncodeToString(digest[:8]))

	logger.WithContext(ctx).Info("published content",
		zap.String("platform_type", string(p.platformType)),
		zap.String("upload_id", req.Upload.ID),
		zap.String("external_post_id", postID),
	)

	return &Result{ExternalPostID: postID}, nil
}

// RegisterSimulated fills a registry with simulated publishers for
// every supported platform type
func RegisterSimulated(registry *Registry) {
	for _, platformType := range []domain.PlatformType{
		domain.PlatformTypeTwitter,
		domain.PlatformTypeFacebook,
		domain.PlatformTypeInstagram,
		domain.PlatformTypeLinkedIn,
		domain.PlatformTypeTikTok,
		domain.PlatformTypeYouTube,
	} {
		registry.Register(platformType, NewSimulatedPublisher(platformType))
	}
}
