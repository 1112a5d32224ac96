package handler

import (
	"net/http"

	"gramosi/internal/delivery/api/response"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const profilePictureField = "profilePicture"

type resolveQRRequest struct {
	Data string `json:"data" validate:"required"`
}

// ProfileHandler serves profile, follow and suggestion endpoints.
type ProfileHandler struct {
	profileUC usecase.ProfileUsecase
}

// NewProfileHandler is the constructor for ProfileHandler.
func NewProfileHandler(profileUC usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC}
}

// GetMe returns the caller's own profile, including the email address.
func (h *ProfileHandler) GetMe(c echo.Context, account *entity.AuthenticatedAccount) error {
	profile, err := h.profileUC.GetProfile(c.Request().Context(), account.ID, account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"profile": profile})
}

func (h *ProfileHandler) GetProfile(c echo.Context, account *entity.AuthenticatedAccount) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.profileUC.GetProfile(c.Request().Context(), account.ID, accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"profile": profile})
}

// UpdateMe accepts a multipart form with an optional bio and profile picture.
func (h *ProfileHandler) UpdateMe(c echo.Context, account *entity.AuthenticatedAccount) error {
	input := usecase.UpdateProfileInput{AccountID: account.ID}

	form, err := c.FormParams()
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed form body")
	}
	if _, ok := form["bio"]; ok {
		bio := form.Get("bio")
		input.Bio = &bio
	}

	if input.Picture, err = formFile(c, profilePictureField); err != nil {
		return err
	}

	updated, err := h.profileUC.UpdateProfile(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Profile updated", map[string]any{"user": updated})
}

func (h *ProfileHandler) Suggested(c echo.Context, account *entity.AuthenticatedAccount) error {
	users, err := h.profileUC.SuggestedUsers(c.Request().Context(), account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"users": users})
}

// ToggleFollow follows the user when not yet followed and unfollows otherwise.
func (h *ProfileHandler) ToggleFollow(c echo.Context, account *entity.AuthenticatedAccount) error {
	followeeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.profileUC.ToggleFollow(c.Request().Context(), account.ID, followeeID)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Unfollowed user"
	if output.Following {
		message = "Followed user"
	}

	return response.Success(c, http.StatusOK, message, map[string]any{
		"following":      output.Following,
		"followerCount":  output.FollowerCount,
		"followingCount": output.FollowingCount,
	})
}

// ProfileQR returns a PNG QR code linking to the profile.
func (h *ProfileHandler) ProfileQR(c echo.Context, _ *entity.AuthenticatedAccount) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.profileUC.ProfileQR(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ResolveQR returns the profile behind a scanned share code.
func (h *ProfileHandler) ResolveQR(c echo.Context, account *entity.AuthenticatedAccount) error {
	var req resolveQRRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profileUC.ResolveProfileQR(c.Request().Context(), account.ID, req.Data)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "", map[string]any{"profile": profile})
}
