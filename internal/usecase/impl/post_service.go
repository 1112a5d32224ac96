package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	deliverycontext "gramosi/internal/delivery/context"
	"gramosi/internal/domain/constants"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
	"gramosi/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type postService struct {
	txManager repository.TransactionManager
	storage   service.MediaStorage
	processor service.MediaProcessor
	publisher service.EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

// PostServiceParams holds dependencies for PostService, injected by Fx.
type PostServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Storage   service.MediaStorage
	Processor service.MediaProcessor
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		txManager: params.TxManager,
		storage:   params.Storage,
		processor: params.Processor,
		publisher: params.Publisher,
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePost uploads the media before inserting the row, and removes the
// object again when the insert fails.
func (srv *postService) CreatePost(ctx context.Context, input usecase.CreatePostInput) (*entity.Post, error) {
	caption := strings.TrimSpace(input.Caption)
	if utf8.RuneCountInString(caption) > constants.MaxCaptionLength {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("caption must be at most %d characters", constants.MaxCaptionLength))
	}

	prepared, err := srv.processor.Prepare(input.Media, true)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("posts/%s/%s%s", input.AuthorID, uuid.NewString(), prepared.Extension)
	url, err := srv.storage.Put(ctx, key, prepared.ContentType, prepared.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store post media")
	}

	post := &entity.Post{
		AuthorID: input.AuthorID,
		Caption:  caption,
		Media:    entity.MediaRef{URL: url, Key: key, Type: prepared.Type},
	}

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		author, err := findAccountByID(ctx, repos.AccountRepo(), input.AuthorID)
		if err != nil {
			return err
		}

		if err := repos.PostRepo().Create(ctx, post); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to create post")
		}
		post.Author = summarize(author)

		return nil
	})
	if err != nil {
		srv.removeMedia(ctx, input.AuthorID, key)

		return nil, err
	}

	srv.log(ctx).Info("Post created", slog.String("post_id", post.ID.String()), slog.String("media_type", string(post.Media.Type)))
	publishEvent(ctx, srv.publisher, srv.log(ctx), srv.now(), service.EventPostCreated, post.ID, map[string]string{
		"author_id":  post.AuthorID.String(),
		"media_type": string(post.Media.Type),
	})

	return post, nil
}

// ListPosts clamps the page size to [1, MaxPageSize].
func (srv *postService) ListPosts(ctx context.Context, input usecase.ListPostsInput) ([]*entity.Post, error) {
	limit := input.Limit
	switch {
	case limit <= 0:
		limit = constants.DefaultPageSize
	case limit > constants.MaxPageSize:
		limit = constants.MaxPageSize
	}
	offset := max(input.Offset, 0)

	return srv.listPosts(ctx, "failed to list posts", func(repo repository.PostRepository) ([]*entity.Post, error) {
		return repo.List(ctx, limit, offset)
	})
}

func (srv *postService) ListUserPosts(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error) {
	return srv.listPosts(ctx, "failed to list user posts", func(repo repository.PostRepository) ([]*entity.Post, error) {
		return repo.ListByAuthor(ctx, authorID)
	})
}

func (srv *postService) ListSavedPosts(ctx context.Context, accountID uuid.UUID) ([]*entity.Post, error) {
	return srv.listPosts(ctx, "failed to list saved posts", func(repo repository.PostRepository) ([]*entity.Post, error) {
		return repo.ListSavedBy(ctx, accountID)
	})
}

// DeletePost removes the rows first; the media object goes afterwards so a
// failed transaction never leaves a post pointing at a missing object.
func (srv *postService) DeletePost(ctx context.Context, requesterID, postID uuid.UUID) error {
	var mediaKey string

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		postRepo := repos.PostRepo()

		post, err := findPostByID(ctx, postRepo, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != requesterID {
			return domainerrors.ErrForbidden.WithDetails("only the author can delete a post")
		}

		if err := repos.CommentRepo().DeleteByPost(ctx, postID); err != nil {
			return errors.Wrap(err, "failed to delete comments")
		}
		if err := postRepo.Delete(ctx, postID); err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return domainerrors.ErrPostNotFound
			}

			return errors.Wrap(err, "failed to delete post")
		}
		mediaKey = post.Media.Key

		return nil
	})
	if err != nil {
		return err
	}

	if mediaKey != "" {
		srv.removeMedia(ctx, requesterID, mediaKey)
	}

	srv.log(ctx).Info("Post deleted", slog.String("post_id", postID.String()))
	publishEvent(ctx, srv.publisher, srv.log(ctx), srv.now(), service.EventPostDeleted, postID, map[string]string{
		"author_id": requesterID.String(),
	})

	return nil
}

func (srv *postService) ToggleLike(ctx context.Context, accountID, postID uuid.UUID) (*usecase.ToggleOutput, error) {
	output := &usecase.ToggleOutput{}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		postRepo := repos.PostRepo()

		if _, err := findPostByID(ctx, postRepo, postID); err != nil {
			return err
		}

		liked, err := postRepo.HasLiked(ctx, postID, accountID)
		if err != nil {
			return errors.Wrap(err, "failed to check like")
		}

		if liked {
			err = postRepo.RemoveLike(ctx, postID, accountID)
		} else {
			err = postRepo.AddLike(ctx, postID, accountID)
		}
		if err != nil {
			return translatePostError(err, "failed to toggle like")
		}
		output.Active = !liked

		if output.Count, err = postRepo.CountLikes(ctx, postID); err != nil {
			return errors.Wrap(err, "failed to count likes")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func (srv *postService) ToggleSave(ctx context.Context, accountID, postID uuid.UUID) (*usecase.ToggleOutput, error) {
	output := &usecase.ToggleOutput{}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		postRepo := repos.PostRepo()

		if _, err := findPostByID(ctx, postRepo, postID); err != nil {
			return err
		}

		saved, err := postRepo.IsSaved(ctx, postID, accountID)
		if err != nil {
			return errors.Wrap(err, "failed to check saved post")
		}

		if saved {
			err = postRepo.Unsave(ctx, postID, accountID)
		} else {
			err = postRepo.Save(ctx, postID, accountID)
		}
		if err != nil {
			return translatePostError(err, "failed to toggle save")
		}
		output.Active = !saved

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func (srv *postService) AddComment(ctx context.Context, input usecase.AddCommentInput) (*entity.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("comment text is required")
	}
	if utf8.RuneCountInString(text) > constants.MaxCommentLength {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("comment must be at most %d characters", constants.MaxCommentLength))
	}

	comment := &entity.Comment{
		PostID:   input.PostID,
		AuthorID: input.AuthorID,
		Text:     text,
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if _, err := findPostByID(ctx, repos.PostRepo(), input.PostID); err != nil {
			return err
		}

		author, err := findAccountByID(ctx, repos.AccountRepo(), input.AuthorID)
		if err != nil {
			return err
		}

		if err := repos.CommentRepo().Create(ctx, comment); err != nil {
			return translatePostError(err, "failed to create comment")
		}
		comment.Author = summarize(author)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (srv *postService) ListComments(ctx context.Context, postID uuid.UUID) ([]*entity.Comment, error) {
	var comments []*entity.Comment

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if _, err := findPostByID(ctx, repos.PostRepo(), postID); err != nil {
			return err
		}

		found, err := repos.CommentRepo().ListByPost(ctx, postID)
		if err != nil {
			return errors.Wrap(err, "failed to list comments")
		}
		comments = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// OpenMedia only serves keys inside the bucket namespace.
func (srv *postService) OpenMedia(ctx context.Context, key string) (*service.MediaObject, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return nil, domainerrors.ErrNotFound
	}

	object, err := srv.storage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrMediaObjectNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to open media object")
	}

	return object, nil
}

func (srv *postService) listPosts(
	ctx context.Context,
	message string,
	query func(repo repository.PostRepository) ([]*entity.Post, error),
) ([]*entity.Post, error) {
	var posts []*entity.Post

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := query(repos.PostRepo())
		if err != nil {
			return errors.Wrap(err, message)
		}
		posts = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (srv *postService) removeMedia(ctx context.Context, ownerID uuid.UUID, key string) {
	removeMediaObject(ctx, srv.storage, srv.publisher, srv.log(ctx), ownerID, key)
}

func findPostByID(ctx context.Context, postRepo repository.PostRepository, id uuid.UUID) (*entity.Post, error) {
	post, err := postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	return post, nil
}

// translatePostError maps a post vanishing between lookup and write.
func translatePostError(err error, message string) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return domainerrors.ErrPostNotFound
	}

	return errors.Wrap(err, message)
}

func summarize(account *entity.Account) *entity.AccountSummary {
	return &entity.AccountSummary{
		ID:             account.ID,
		UserName:       account.UserName,
		ProfilePicture: account.ProfilePicture.URL,
		Bio:            account.Bio,
	}
}
