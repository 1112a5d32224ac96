package handler

import (
	"net/http"

	"gramosi/internal/delivery/api/middleware"
	"gramosi/internal/delivery/api/response"
	"gramosi/internal/domain/entity"
	"gramosi/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type signupRequest struct {
	UserName        string `json:"userName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type verifyRequest struct {
	OTP string `json:"otp"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type forgotPasswordRequest struct {
	Identifier string `json:"identifier"`
}

type resetPasswordRequest struct {
	Identifier      string `json:"identifier" validate:"required"`
	OTP             string `json:"otp" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword" validate:"required"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required"`
}

// AccountHandler serves signup, verification, login and password endpoints.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	cookies   *middleware.SessionCookies
}

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Cookies   *middleware.SessionCookies
}

// NewAccountHandler is the constructor for AccountHandler.
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		cookies:   params.Cookies,
	}
}

// Signup creates an unverified account and mails its verification code.
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.Register(c.Request().Context(), usecase.RegisterInput{
		UserName:        req.UserName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.authenticated(c, http.StatusCreated, "Registration successful, check your email for the verification code", output)
}

// Verify consumes the verification code of the logged in account.
func (h *AccountHandler) Verify(c echo.Context, account *entity.AuthenticatedAccount) error {
	var req verifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.Verify(c.Request().Context(), usecase.VerifyInput{
		AccountID: account.ID,
		OTP:       req.OTP,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.authenticated(c, http.StatusOK, "Email has been verified", output)
}

// ResendOTP mails a fresh verification code.
func (h *AccountHandler) ResendOTP(c echo.Context, account *entity.AuthenticatedAccount) error {
	if err := h.accountUC.ResendOTP(c.Request().Context(), account.ID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "A new OTP has been sent to your email", nil)
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.Login(c.Request().Context(), usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.authenticated(c, http.StatusOK, "Login successful", output)
}

// Logout replaces the session cookie. Tokens are not revoked server side.
func (h *AccountHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)

	return response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AccountHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.ForgotPassword(c.Request().Context(), req.Identifier); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Password reset OTP has been sent to your email", nil)
}

func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Identifier:      req.Identifier,
		OTP:             req.OTP,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.authenticated(c, http.StatusOK, "Password reset successfully", output)
}

func (h *AccountHandler) ChangePassword(c echo.Context, account *entity.AuthenticatedAccount) error {
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.ChangePassword(c.Request().Context(), usecase.ChangePasswordInput{
		AccountID:          account.ID,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.authenticated(c, http.StatusOK, "Password changed successfully", output)
}

// authenticated sets the session cookie and echoes the token in the body.
func (h *AccountHandler) authenticated(c echo.Context, statusCode int, message string, output *usecase.AuthOutput) error {
	h.cookies.Write(c, output.Session)

	return response.SuccessWithToken(c, statusCode, message, output.Session.Value, map[string]any{
		"user": output.Account,
	})
}
