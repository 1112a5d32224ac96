// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gramosi/internal/domain/entity"
	"gramosi/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	UserName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// VerifyInput carries the verification code for the authenticated account.
type VerifyInput struct {
	AccountID uuid.UUID
	OTP       string
}

// LoginInput defines the data required to log in. Identifier is an email or a user name.
type LoginInput struct {
	Identifier string
	Password   string
}

// ResetPasswordInput defines the data required to finish a password reset.
type ResetPasswordInput struct {
	Identifier      string
	OTP             string
	Password        string
	PasswordConfirm string
}

// ChangePasswordInput defines the data required to change a known password.
type ChangePasswordInput struct {
	AccountID          uuid.UUID
	CurrentPassword    string
	NewPassword        string
	NewPasswordConfirm string
}

// --- Output DTOs ---

// AuthOutput is the sanitized account together with a freshly issued session.
type AuthOutput struct {
	Account *entity.Account
	Session *service.SessionToken
}

// AccountUsecase defines the account lifecycle and credential operations.
type AccountUsecase interface {
	// Register creates an unverified account and delivers its verification code.
	// Nothing is left behind when delivery fails.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Verify consumes the verification code.
	Verify(ctx context.Context, input VerifyInput) (*AuthOutput, error)

	// ResendOTP replaces the verification code and delivers it again.
	ResendOTP(ctx context.Context, accountID uuid.UUID) error

	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// ForgotPassword issues a reset code, invalidating any earlier one.
	ForgotPassword(ctx context.Context, identifier string) error

	ResetPassword(ctx context.Context, input ResetPasswordInput) (*AuthOutput, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) (*AuthOutput, error)
}
