package usecase

import (
	"context"

	"gramosi/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput carries the editable profile fields. A nil field is left unchanged.
type UpdateProfileInput struct {
	AccountID uuid.UUID
	Bio       *string
	Picture   []byte
}

// FollowOutput reports the relationship after a toggle.
type FollowOutput struct {
	Following      bool
	FollowerCount  int64
	FollowingCount int64
}

// ProfileUsecase defines profile and social graph operations.
type ProfileUsecase interface {
	// GetProfile returns the profile of accountID as seen by viewerID.
	GetProfile(ctx context.Context, viewerID, accountID uuid.UUID) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*entity.Account, error)
	SuggestedUsers(ctx context.Context, viewerID uuid.UUID) ([]*entity.AccountSummary, error)
	ToggleFollow(ctx context.Context, followerID, followeeID uuid.UUID) (*FollowOutput, error)

	// ProfileQR returns a PNG QR code linking to the public profile.
	ProfileQR(ctx context.Context, accountID uuid.UUID) ([]byte, error)

	// ResolveProfileQR returns the profile a scanned share code links to.
	ResolveProfileQR(ctx context.Context, viewerID uuid.UUID, qrData string) (*entity.Profile, error)
}
