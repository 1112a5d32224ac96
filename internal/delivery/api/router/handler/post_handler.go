package handler

import (
	"net/http"
	"strconv"

	"gramosi/internal/delivery/api/response"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const postMediaField = "media"

type commentRequest struct {
	Text string `json:"text"`
}

// PostHandler serves posts, likes, saves, comments and stored media.
type PostHandler struct {
	postUC usecase.PostUsecase
}

// NewPostHandler is the constructor for PostHandler.
func NewPostHandler(postUC usecase.PostUsecase) *PostHandler {
	return &PostHandler{postUC: postUC}
}

// Create accepts a multipart form with a caption and one media file.
func (h *PostHandler) Create(c echo.Context, account *entity.AuthenticatedAccount) error {
	media, err := formFile(c, postMediaField)
	if err != nil {
		return err
	}

	post, err := h.postUC.CreatePost(c.Request().Context(), usecase.CreatePostInput{
		AuthorID: account.ID,
		Caption:  c.FormValue("caption"),
		Media:    media,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, "Post created", map[string]any{"post": post})
}

// List pages through all posts, newest first.
// List is public: the feed is readable without a session.
func (h *PostHandler) List(c echo.Context) error {
	var input usecase.ListPostsInput
	err := echo.QueryParamsBinder(c).
		Int("limit", &input.Limit).
		Int("offset", &input.Offset).
		BindError()
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("limit and offset must be integers")
	}

	posts, err := h.postUC.ListPosts(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"posts": posts})
}

func (h *PostHandler) ListUserPosts(c echo.Context) error {
	authorID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.postUC.ListUserPosts(c.Request().Context(), authorID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"posts": posts})
}

func (h *PostHandler) ListSaved(c echo.Context, account *entity.AuthenticatedAccount) error {
	posts, err := h.postUC.ListSavedPosts(c.Request().Context(), account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"posts": posts})
}

func (h *PostHandler) Delete(c echo.Context, account *entity.AuthenticatedAccount) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.postUC.DeletePost(c.Request().Context(), account.ID, postID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Post deleted", nil)
}

func (h *PostHandler) ToggleLike(c echo.Context, account *entity.AuthenticatedAccount) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.postUC.ToggleLike(c.Request().Context(), account.ID, postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{
		"liked":     output.Active,
		"likeCount": output.Count,
	})
}

func (h *PostHandler) ToggleSave(c echo.Context, account *entity.AuthenticatedAccount) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.postUC.ToggleSave(c.Request().Context(), account.ID, postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"saved": output.Active})
}

func (h *PostHandler) AddComment(c echo.Context, account *entity.AuthenticatedAccount) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.postUC.AddComment(c.Request().Context(), usecase.AddCommentInput{
		PostID:   postID,
		AuthorID: account.ID,
		Text:     req.Text,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, "Comment added", map[string]any{"comment": comment})
}

func (h *PostHandler) ListComments(c echo.Context, _ *entity.AuthenticatedAccount) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.postUC.ListComments(c.Request().Context(), postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"comments": comments})
}

// Media streams a stored object from the bucket.
func (h *PostHandler) Media(c echo.Context) error {
	object, err := h.postUC.OpenMedia(c.Request().Context(), c.Param("*"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer object.Body.Close()

	if object.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(object.Size, 10))
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Stream(http.StatusOK, object.ContentType, object.Body)
}
