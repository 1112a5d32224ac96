package impl

import (
	"context"
	"log/slog"

	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/lifecycle"
	"gramosi/internal/domain/repository"
	"gramosi/internal/errors"
)

// deliveryState is the position of a code delivery in its lifecycle.
type deliveryState int

const (
	deliveryPending deliveryState = iota
	deliveryStaged
	deliveryDelivered
	deliveryCompensated
	deliveryCompensationFailed
)

func (s deliveryState) String() string {
	switch s {
	case deliveryPending:
		return "pending"
	case deliveryStaged:
		return "staged"
	case deliveryDelivered:
		return "delivered"
	case deliveryCompensated:
		return "compensated"
	case deliveryCompensationFailed:
		return "compensation_failed"
	default:
		return "unknown"
	}
}

// outboundCode is the message rendered for a staged account.
type outboundCode struct {
	to       string
	subject  string
	template string
	vars     map[string]string
}

// codeDelivery persists tentative state, sends a code, and on failure applies
// the inverse mutation so that no account claims a code that was never sent.
type codeDelivery struct {
	operation string

	// stage persists the tentative state and returns the account to notify.
	stage func(ctx context.Context, repos repository.RepositoryFactory) (*entity.Account, error)

	// message builds the notification for the staged account.
	message func(account *entity.Account) outboundCode

	// compensate undoes stage.
	compensate func(ctx context.Context, repos repository.RepositoryFactory, account *entity.Account) error
}

type deliveryResult struct {
	state   deliveryState
	account *entity.Account
}

// runCodeDelivery drives a codeDelivery to delivered, compensated or
// compensationFailed. Stage and compensate each run in their own transaction;
// the send happens outside of both.
func (srv *accountService) runCodeDelivery(ctx context.Context, op *codeDelivery) (*deliveryResult, error) {
	result := &deliveryResult{state: deliveryPending}
	logger := srv.log(ctx).With(slog.String("operation", op.operation))

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		account, err := op.stage(ctx, repos)
		if err != nil {
			return err
		}
		result.account = account

		return nil
	})
	if err != nil {
		return result, err
	}
	result.state = deliveryStaged

	sendErr := srv.deliver(ctx, op.message(result.account))
	if sendErr == nil {
		result.state = deliveryDelivered
		logger.Debug("Code delivered", slog.String("account_id", result.account.ID.String()))

		return result, nil
	}

	// The request may already be cancelled; compensation must still run.
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
	defer cancel()

	compErr := srv.txManager.Execute(compCtx, func(repos repository.RepositoryFactory) error {
		return op.compensate(compCtx, repos, result.account)
	})
	if compErr != nil {
		result.state = deliveryCompensationFailed
		logger.Error("Code delivery failed and compensation failed",
			slog.String("account_id", result.account.ID.String()),
			slog.Any("send_error", sendErr),
			slog.Any("compensation_error", compErr),
		)

		return result, errors.Join(domainerrors.ErrCodeDeliveryFailed, sendErr, compErr)
	}

	result.state = deliveryCompensated
	logger.Warn("Code delivery failed, staged state compensated",
		slog.String("account_id", result.account.ID.String()),
		slog.Any("send_error", sendErr),
	)

	return result, errors.Join(domainerrors.ErrCodeDeliveryFailed, sendErr)
}

func (srv *accountService) deliver(ctx context.Context, msg outboundCode) error {
	body, err := srv.renderer.Render(msg.template, msg.vars)
	if err != nil {
		return errors.Wrap(err, "failed to render code message")
	}

	return errors.Wrap(srv.sender.Send(ctx, msg.to, msg.subject, body), "failed to send code message")
}
