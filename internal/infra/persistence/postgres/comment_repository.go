package postgres

import (
	"context"

	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository is the constructor for commentRepository.
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (repo *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentM := &model.CommentModel{
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Text:     comment.Text,
	}

	if err := repo.db.WithContext(ctx).Omit("Author").Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create comment")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// ListByPost returns comments oldest first.
func (repo *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*entity.Comment, error) {
	var commentsM []model.CommentModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&commentsM).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list comments")
	}

	comments := make([]*entity.Comment, 0, len(commentsM))
	for i := range commentsM {
		comments = append(comments, toCommentDomain(&commentsM[i]))
	}

	return comments, nil
}

func (repo *commentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.CommentModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete comments")
	}

	return nil
}
