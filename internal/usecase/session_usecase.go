package usecase

import (
	"context"

	"gramosi/internal/domain/entity"
)

// SessionUsecase resolves a session token to a live account.
type SessionUsecase interface {
	// Authenticate fails closed: an empty, malformed, expired or orphaned token is an error.
	Authenticate(ctx context.Context, token string) (*entity.AuthenticatedAccount, error)
}
