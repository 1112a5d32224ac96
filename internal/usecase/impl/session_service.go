package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "gramosi/internal/delivery/context"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
	"gramosi/internal/usecase"

	"go.uber.org/fx"
)

type sessionService struct {
	txManager    repository.TransactionManager
	tokenService service.TokenService
	logger       *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		txManager:    params.TxManager,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *sessionService) Authenticate(ctx context.Context, token string) (*entity.AuthenticatedAccount, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainerrors.ErrUnauthenticated
	}

	claims, err := srv.tokenService.Validate(token)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Session token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrSessionInvalid
	}

	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := repos.AccountRepo().FindByID(ctx, claims.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrSessionAccountGone
			}

			return errors.Wrap(err, "failed to resolve session account")
		}
		account = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account.Authenticated(), nil
}
