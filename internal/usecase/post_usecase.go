package usecase

import (
	"context"

	"gramosi/internal/domain/entity"
	"gramosi/internal/domain/service"

	"github.com/google/uuid"
)

// CreatePostInput defines the data required to publish a post.
type CreatePostInput struct {
	AuthorID uuid.UUID
	Caption  string
	Media    []byte
}

// ListPostsInput pages through the global post list.
type ListPostsInput struct {
	Limit  int
	Offset int
}

// AddCommentInput defines the data required to comment on a post.
type AddCommentInput struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	Text     string
}

// ToggleOutput reports a like or save relation after a toggle.
type ToggleOutput struct {
	Active bool
	Count  int64
}

// PostUsecase defines post, like, save and comment operations.
type PostUsecase interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*entity.Post, error)
	ListPosts(ctx context.Context, input ListPostsInput) ([]*entity.Post, error)
	ListUserPosts(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error)
	ListSavedPosts(ctx context.Context, accountID uuid.UUID) ([]*entity.Post, error)

	// DeletePost removes a post owned by requesterID together with its media.
	DeletePost(ctx context.Context, requesterID, postID uuid.UUID) error

	ToggleLike(ctx context.Context, accountID, postID uuid.UUID) (*ToggleOutput, error)
	ToggleSave(ctx context.Context, accountID, postID uuid.UUID) (*ToggleOutput, error)

	AddComment(ctx context.Context, input AddCommentInput) (*entity.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*entity.Comment, error)

	// OpenMedia streams a stored media object.
	OpenMedia(ctx context.Context, key string) (*service.MediaObject, error)
}
