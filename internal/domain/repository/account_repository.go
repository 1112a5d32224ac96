// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"gramosi/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned when a write collides with the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateUserName is returned when a write collides with the unique user name index.
	ErrDuplicateUserName = errors.New("user name already exists")

	// ErrDuplicateAccount is returned for a unique violation whose index could not be identified.
	ErrDuplicateAccount = errors.New("account already exists")
)

// AccountRepository defines persistence for accounts.
type AccountRepository interface {
	// Create inserts a new account and assigns its ID.
	// It returns ErrDuplicateEmail, ErrDuplicateUserName or ErrDuplicateAccount on unique index violations.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID returns the account including its credential fields.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByIdentifier matches identifier against email (case-insensitive) or user name.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.Account, error)

	// FindByIdentifierAndResetOTP matches identifier, the pending reset code, and a reset
	// expiry strictly after now, all in one query.
	FindByIdentifierAndResetOTP(ctx context.Context, identifier, code string, now time.Time) (*entity.Account, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)

	// UpdateCredentials writes the password hash, verification flag and both code pairs.
	// Profile fields are left untouched.
	UpdateCredentials(ctx context.Context, account *entity.Account) error

	// UpdateProfile writes bio and profile picture only.
	UpdateProfile(ctx context.Context, account *entity.Account) error

	// Delete removes the account row.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListSuggested returns up to limit accounts other than excludeID.
	ListSuggested(ctx context.Context, excludeID uuid.UUID, limit int) ([]*entity.AccountSummary, error)
}

// FollowRepository manages the follower graph.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, accountID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, accountID uuid.UUID) (int64, error)
}
