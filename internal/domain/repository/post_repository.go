package repository

import (
	"context"
	"errors"

	"gramosi/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPostNotFound is returned when no post matches a lookup.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines persistence for posts and their like and save sets.
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// List returns posts newest first with author summaries and counters populated.
	List(ctx context.Context, limit, offset int) ([]*entity.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error)
	ListSavedBy(ctx context.Context, accountID uuid.UUID) ([]*entity.Post, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)

	// Delete removes the post together with its like and save rows.
	Delete(ctx context.Context, id uuid.UUID) error

	AddLike(ctx context.Context, postID, accountID uuid.UUID) error
	RemoveLike(ctx context.Context, postID, accountID uuid.UUID) error
	HasLiked(ctx context.Context, postID, accountID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)

	Save(ctx context.Context, postID, accountID uuid.UUID) error
	Unsave(ctx context.Context, postID, accountID uuid.UUID) error
	IsSaved(ctx context.Context, postID, accountID uuid.UUID) (bool, error)
}

// CommentRepository defines persistence for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*entity.Comment, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}
