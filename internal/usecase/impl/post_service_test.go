package impl

import (
	"context"
	"io"
	"strings"
	"testing"

	"gramosi/internal/domain/constants"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"
	mockSvc "gramosi/internal/mocks/service"
	"gramosi/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// postServiceFixtures holds all test dependencies for post service tests.
type postServiceFixtures struct {
	service   usecase.PostUsecase
	repos     repoMocks
	storage   *mockSvc.MockMediaStorage
	processor *mockSvc.MockMediaProcessor
	publisher *mockSvc.MockEventPublisher
}

func createTestPostService(t *testing.T) postServiceFixtures {
	fx := postServiceFixtures{
		repos:     newRepoMocks(t),
		storage:   mockSvc.NewMockMediaStorage(t),
		processor: mockSvc.NewMockMediaProcessor(t),
		publisher: mockSvc.NewMockEventPublisher(t),
	}

	fx.service = NewPostService(PostServiceParams{
		TxManager: fx.repos.txManager,
		Storage:   fx.storage,
		Processor: fx.processor,
		Publisher: fx.publisher,
		Logger:    newDiscardLogger(),
	})

	return fx
}

func preparedVideo() *service.PreparedMedia {
	return &service.PreparedMedia{
		Type:        entity.MediaTypeVideo,
		ContentType: "video/mp4",
		Extension:   ".mp4",
		Data:        []byte("mp4"),
	}
}

func TestPostService_CreatePost_Success(t *testing.T) {
	fx := createTestPostService(t)
	authorID := uuid.New()
	postID := uuid.New()
	raw := []byte("raw")

	fx.processor.On("Prepare", raw, true).Return(preparedVideo(), nil)
	fx.storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "posts/"+authorID.String()+"/") && strings.HasSuffix(key, ".mp4")
	}), "video/mp4", []byte("mp4")).Return("/media/clip.mp4", nil)
	fx.repos.accounts.On("FindByID", mock.Anything, authorID).Return(&entity.Account{ID: authorID, UserName: "alice"}, nil)
	fx.repos.posts.On("Create", mock.Anything, mock.AnythingOfType("*entity.Post")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.Post).ID = postID }).
		Return(nil)
	fx.publisher.On("Publish", mock.Anything, eventOfType(service.EventPostCreated)).Return(nil)

	post, err := fx.service.CreatePost(context.Background(), usecase.CreatePostInput{
		AuthorID: authorID,
		Caption:  "  sunset  ",
		Media:    raw,
	})

	require.NoError(t, err)
	assert.Equal(t, postID, post.ID)
	assert.Equal(t, "sunset", post.Caption)
	assert.Equal(t, entity.MediaTypeVideo, post.Media.Type)
	assert.Equal(t, "/media/clip.mp4", post.Media.URL)
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.UserName)
}

func TestPostService_CreatePost_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreatePostInput
		setup   func(fx postServiceFixtures)
		wantErr error
	}{
		{
			name:    "caption too long",
			input:   usecase.CreatePostInput{AuthorID: uuid.New(), Caption: strings.Repeat("a", constants.MaxCaptionLength+1), Media: []byte("x")},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:  "media missing",
			input: usecase.CreatePostInput{AuthorID: uuid.New()},
			setup: func(fx postServiceFixtures) {
				fx.processor.On("Prepare", []byte(nil), true).Return(nil, domainerrors.ErrMediaRequired)
			},
			wantErr: domainerrors.ErrMediaRequired,
		},
		{
			name:  "media too large",
			input: usecase.CreatePostInput{AuthorID: uuid.New(), Media: []byte("big")},
			setup: func(fx postServiceFixtures) {
				fx.processor.On("Prepare", []byte("big"), true).Return(nil, domainerrors.ErrMediaTooLarge)
			},
			wantErr: domainerrors.ErrMediaTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestPostService(t)
			if tt.setup != nil {
				tt.setup(fx)
			}

			post, err := fx.service.CreatePost(context.Background(), tt.input)

			assert.Nil(t, post)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostService_CreatePost_RemovesUploadWhenInsertFails(t *testing.T) {
	fx := createTestPostService(t)
	authorID := uuid.New()
	var storedKey string

	fx.processor.On("Prepare", mock.Anything, true).Return(preparedVideo(), nil)
	fx.storage.On("Put", mock.Anything, mock.AnythingOfType("string"), "video/mp4", mock.Anything).
		Run(func(args mock.Arguments) { storedKey = args.String(1) }).
		Return("/media/clip.mp4", nil)
	fx.repos.accounts.On("FindByID", mock.Anything, authorID).Return(&entity.Account{ID: authorID}, nil)
	fx.repos.posts.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	fx.storage.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool { return key == storedKey })).
		Return(errors.New("bucket unavailable"))
	fx.publisher.On("Publish", mock.Anything, eventOfType(service.EventMediaOrphaned)).Return(nil)

	_, err := fx.service.CreatePost(context.Background(), usecase.CreatePostInput{AuthorID: authorID, Media: []byte("raw")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create post")
}

func TestPostService_ListPosts_ClampsPage(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.ListPostsInput
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", input: usecase.ListPostsInput{}, wantLimit: constants.DefaultPageSize},
		{name: "capped", input: usecase.ListPostsInput{Limit: 500, Offset: 40}, wantLimit: constants.MaxPageSize, wantOffset: 40},
		{name: "negative offset", input: usecase.ListPostsInput{Limit: 5, Offset: -3}, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestPostService(t)
			posts := []*entity.Post{{ID: uuid.New()}}

			fx.repos.posts.On("List", mock.Anything, tt.wantLimit, tt.wantOffset).Return(posts, nil)

			got, err := fx.service.ListPosts(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, posts, got)
		})
	}
}

func TestPostService_ListUserAndSavedPosts(t *testing.T) {
	fx := createTestPostService(t)
	id := uuid.New()
	own := []*entity.Post{{ID: uuid.New(), AuthorID: id}}

	fx.repos.posts.On("ListByAuthor", mock.Anything, id).Return(own, nil)
	fx.repos.posts.On("ListSavedBy", mock.Anything, id).Return(nil, errors.New("timeout"))

	got, err := fx.service.ListUserPosts(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, own, got)

	_, err = fx.service.ListSavedPosts(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list saved posts")
}

func TestPostService_DeletePost(t *testing.T) {
	ownerID := uuid.New()
	postID := uuid.New()
	key := "posts/" + ownerID.String() + "/a.jpg"

	tests := []struct {
		name         string
		deleteErr    error
		wantOrphaned bool
	}{
		{name: "media removed"},
		{name: "media left for the worker", deleteErr: errors.New("bucket unavailable"), wantOrphaned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestPostService(t)

			fx.repos.posts.On("FindByID", mock.Anything, postID).Return(&entity.Post{
				ID:       postID,
				AuthorID: ownerID,
				Media:    entity.MediaRef{Key: key, Type: entity.MediaTypeImage},
			}, nil)
			fx.repos.comments.On("DeleteByPost", mock.Anything, postID).Return(nil)
			fx.repos.posts.On("Delete", mock.Anything, postID).Return(nil)
			fx.storage.On("Delete", mock.Anything, key).Return(tt.deleteErr)
			if tt.wantOrphaned {
				fx.publisher.On("Publish", mock.Anything, orphanedKey(key)).Return(nil)
			}
			fx.publisher.On("Publish", mock.Anything, eventOfType(service.EventPostDeleted)).Return(nil)

			err := fx.service.DeletePost(context.Background(), ownerID, postID)

			require.NoError(t, err)
		})
	}
}

func TestPostService_DeletePost_Errors(t *testing.T) {
	fx := createTestPostService(t)
	postID := uuid.New()
	missingID := uuid.New()

	fx.repos.posts.On("FindByID", mock.Anything, postID).Return(&entity.Post{ID: postID, AuthorID: uuid.New()}, nil)
	fx.repos.posts.On("FindByID", mock.Anything, missingID).Return(nil, repository.ErrPostNotFound)

	err := fx.service.DeletePost(context.Background(), uuid.New(), postID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	err = fx.service.DeletePost(context.Background(), uuid.New(), missingID)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_ToggleLike(t *testing.T) {
	accountID := uuid.New()
	postID := uuid.New()

	tests := []struct {
		name       string
		liked      bool
		method     string
		count      int64
		wantActive bool
	}{
		{name: "like", liked: false, method: "AddLike", count: 1, wantActive: true},
		{name: "unlike", liked: true, method: "RemoveLike", count: 0, wantActive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestPostService(t)

			fx.repos.posts.On("FindByID", mock.Anything, postID).Return(&entity.Post{ID: postID}, nil)
			fx.repos.posts.On("HasLiked", mock.Anything, postID, accountID).Return(tt.liked, nil)
			fx.repos.posts.On(tt.method, mock.Anything, postID, accountID).Return(nil)
			fx.repos.posts.On("CountLikes", mock.Anything, postID).Return(tt.count, nil)

			output, err := fx.service.ToggleLike(context.Background(), accountID, postID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, output.Active)
			assert.Equal(t, tt.count, output.Count)
		})
	}
}

func TestPostService_ToggleSave(t *testing.T) {
	fx := createTestPostService(t)
	accountID := uuid.New()
	postID := uuid.New()
	missingID := uuid.New()

	fx.repos.posts.On("FindByID", mock.Anything, postID).Return(&entity.Post{ID: postID}, nil)
	fx.repos.posts.On("FindByID", mock.Anything, missingID).Return(nil, repository.ErrPostNotFound)
	fx.repos.posts.On("IsSaved", mock.Anything, postID, accountID).Return(false, nil)
	fx.repos.posts.On("Save", mock.Anything, postID, accountID).Return(nil)

	output, err := fx.service.ToggleSave(context.Background(), accountID, postID)
	require.NoError(t, err)
	assert.True(t, output.Active)

	_, err = fx.service.ToggleSave(context.Background(), accountID, missingID)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_AddComment(t *testing.T) {
	fx := createTestPostService(t)
	authorID := uuid.New()
	postID := uuid.New()

	_, err := fx.service.AddComment(context.Background(), usecase.AddCommentInput{PostID: postID, AuthorID: authorID, Text: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	fx.repos.posts.On("FindByID", mock.Anything, postID).Return(&entity.Post{ID: postID}, nil)
	fx.repos.accounts.On("FindByID", mock.Anything, authorID).Return(&entity.Account{ID: authorID, UserName: "bob"}, nil)
	fx.repos.comments.On("Create", mock.Anything, mock.MatchedBy(func(comment *entity.Comment) bool {
		return comment.Text == "nice shot" && comment.PostID == postID
	})).Return(nil)

	comment, err := fx.service.AddComment(context.Background(), usecase.AddCommentInput{PostID: postID, AuthorID: authorID, Text: " nice shot "})

	require.NoError(t, err)
	assert.Equal(t, "nice shot", comment.Text)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "bob", comment.Author.UserName)
}

func TestPostService_ListComments(t *testing.T) {
	fx := createTestPostService(t)
	postID := uuid.New()
	comments := []*entity.Comment{{ID: uuid.New(), PostID: postID, Text: "first"}}

	fx.repos.posts.On("FindByID", mock.Anything, postID).Return(&entity.Post{ID: postID}, nil)
	fx.repos.comments.On("ListByPost", mock.Anything, postID).Return(comments, nil)

	got, err := fx.service.ListComments(context.Background(), postID)

	require.NoError(t, err)
	assert.Equal(t, comments, got)
}

func TestPostService_OpenMedia(t *testing.T) {
	fx := createTestPostService(t)
	object := &service.MediaObject{Body: io.NopCloser(strings.NewReader("data")), ContentType: "image/jpeg", Size: 4}

	fx.storage.On("Open", mock.Anything, "posts/a.jpg").Return(object, nil)
	fx.storage.On("Open", mock.Anything, "posts/missing.jpg").Return(nil, service.ErrMediaObjectNotFound)

	got, err := fx.service.OpenMedia(context.Background(), "/posts/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, object, got)

	_, err = fx.service.OpenMedia(context.Background(), "posts/missing.jpg")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	for _, key := range []string{"", "../config.yaml", "posts/../../etc/passwd"} {
		_, err = fx.service.OpenMedia(context.Background(), key)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound, key)
	}
}
