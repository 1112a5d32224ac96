package postgres

import (
	"context"

	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/errors"
	"gramosi/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postCounter is one row of a grouped count keyed by post.
type postCounter struct {
	PostID uuid.UUID
	Total  int64
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postM := fromPostDomain(post)

	if err := repo.db.WithContext(ctx).Omit("Author").Create(postM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrAccountNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt

	return nil
}

func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var postM model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&postM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find post")
	}

	posts, err := repo.withCounters(ctx, []model.PostModel{postM})
	if err != nil {
		return nil, err
	}

	return posts[0], nil
}

func (repo *postRepository) List(ctx context.Context, limit, offset int) ([]*entity.Post, error) {
	var postsM []model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&postsM).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list posts")
	}

	return repo.withCounters(ctx, postsM)
}

func (repo *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error) {
	var postsM []model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&postsM).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list posts by author")
	}

	return repo.withCounters(ctx, postsM)
}

// ListSavedBy returns saved posts, most recently saved first.
func (repo *postRepository) ListSavedBy(ctx context.Context, accountID uuid.UUID) ([]*entity.Post, error) {
	var postsM []model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.account_id = ?", accountID).
		Order("saved_posts.created_at DESC").
		Find(&postsM).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list saved posts")
	}

	return repo.withCounters(ctx, postsM)
}

func (repo *postRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.PostModel{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count posts")
	}

	return count, nil
}

// Delete removes likes and saves explicitly before the post row so the
// cascade does not depend on schema options alone.
func (repo *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("post_id = ?", id).Delete(&model.PostLikeModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete post likes")
	}
	if err := db.Where("post_id = ?", id).Delete(&model.SavedPostModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete post saves")
	}

	result := db.Where("id = ?", id).Delete(&model.PostModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

func (repo *postRepository) AddLike(ctx context.Context, postID, accountID uuid.UUID) error {
	return repo.insertIgnore(ctx, &model.PostLikeModel{PostID: postID, AccountID: accountID}, "failed to like post")
}

func (repo *postRepository) RemoveLike(ctx context.Context, postID, accountID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("post_id = ? AND account_id = ?", postID, accountID).
		Delete(&model.PostLikeModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to unlike post")
	}

	return nil
}

func (repo *postRepository) HasLiked(ctx context.Context, postID, accountID uuid.UUID) (bool, error) {
	return repo.exists(ctx, &model.PostLikeModel{}, postID, accountID)
}

func (repo *postRepository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.PostLikeModel{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count likes")
	}

	return count, nil
}

func (repo *postRepository) Save(ctx context.Context, postID, accountID uuid.UUID) error {
	return repo.insertIgnore(ctx, &model.SavedPostModel{PostID: postID, AccountID: accountID}, "failed to save post")
}

func (repo *postRepository) Unsave(ctx context.Context, postID, accountID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("post_id = ? AND account_id = ?", postID, accountID).
		Delete(&model.SavedPostModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to unsave post")
	}

	return nil
}

func (repo *postRepository) IsSaved(ctx context.Context, postID, accountID uuid.UUID) (bool, error) {
	return repo.exists(ctx, &model.SavedPostModel{}, postID, accountID)
}

// withCounters maps posts to entities and fills like and comment counters
// with one grouped query per counter.
func (repo *postRepository) withCounters(ctx context.Context, postsM []model.PostModel) ([]*entity.Post, error) {
	posts := make([]*entity.Post, 0, len(postsM))
	if len(postsM) == 0 {
		return posts, nil
	}

	ids := make([]uuid.UUID, 0, len(postsM))
	for i := range postsM {
		ids = append(ids, postsM[i].ID)
	}

	likes, err := repo.countByPost(ctx, &model.PostLikeModel{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := repo.countByPost(ctx, &model.CommentModel{}, ids)
	if err != nil {
		return nil, err
	}

	for i := range postsM {
		post := toPostDomain(&postsM[i])
		post.LikeCount = likes[post.ID]
		post.CommentCount = comments[post.ID]
		posts = append(posts, post)
	}

	return posts, nil
}

func (repo *postRepository) countByPost(ctx context.Context, value any, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var counters []postCounter
	err := repo.db.WithContext(ctx).
		Model(value).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&counters).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count post relations")
	}

	totals := make(map[uuid.UUID]int64, len(counters))
	for _, c := range counters {
		totals[c.PostID] = c.Total
	}

	return totals, nil
}

func (repo *postRepository) insertIgnore(ctx context.Context, value any, details string) error {
	err := repo.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, details)
	}

	return nil
}

func (repo *postRepository) exists(ctx context.Context, value any, postID, accountID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(value).
		Where("post_id = ? AND account_id = ?", postID, accountID).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check post relation")
	}

	return count > 0, nil
}
