package postgres

import (
	"context"

	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository is the constructor for followRepository.
func NewFollowRepository(db *gorm.DB) repository.FollowRepository {
	return &followRepository{db: db}
}

// Follow is idempotent.
func (repo *followRepository) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.FollowModel{FollowerID: followerID, FolloweeID: followeeID}).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrAccountNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to follow account")
	}

	return nil
}

func (repo *followRepository) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.FollowModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to unfollow account")
	}

	return nil
}

func (repo *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.FollowModel{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check follow")
	}

	return count > 0, nil
}

func (repo *followRepository) CountFollowers(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return repo.count(ctx, "followee_id = ?", accountID)
}

func (repo *followRepository) CountFollowing(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return repo.count(ctx, "follower_id = ?", accountID)
}

func (repo *followRepository) count(ctx context.Context, query string, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.FollowModel{}).Where(query, accountID).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count follows")
	}

	return count, nil
}
