package impl

import (
	"context"
	"testing"

	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDelivery(stageErr, compErr error, compensated *bool) *codeDelivery {
	return &codeDelivery{
		operation: "test",
		stage: func(context.Context, repository.RepositoryFactory) (*entity.Account, error) {
			if stageErr != nil {
				return nil, stageErr
			}

			return &entity.Account{ID: uuid.New(), UserName: "alice", Email: "alice@example.com"}, nil
		},
		message: func(account *entity.Account) outboundCode {
			return outboundCode{
				to:       account.Email,
				subject:  "code",
				template: service.TemplateVerificationOTP,
				vars:     codeVars(account.UserName, "123456", 0),
			}
		},
		compensate: func(context.Context, repository.RepositoryFactory, *entity.Account) error {
			*compensated = true

			return compErr
		},
	}
}

func TestRunCodeDelivery_States(t *testing.T) {
	sendErr := errors.New("smtp: refused")
	compErr := errors.New("compensation: store unavailable")
	stageErr := domainerrors.ErrEmailTaken

	tests := []struct {
		name            string
		stageErr        error
		sendErr         error
		compErr         error
		wantState       deliveryState
		wantCompensated bool
		wantErrs        []error
	}{
		{
			name:      "stage rejected",
			stageErr:  stageErr,
			wantState: deliveryPending,
			wantErrs:  []error{stageErr},
		},
		{
			name:      "delivered",
			wantState: deliveryDelivered,
		},
		{
			name:            "send failed and compensated",
			sendErr:         sendErr,
			wantState:       deliveryCompensated,
			wantCompensated: true,
			wantErrs:        []error{domainerrors.ErrCodeDeliveryFailed, sendErr},
		},
		{
			name:            "send failed and compensation failed",
			sendErr:         sendErr,
			compErr:         compErr,
			wantState:       deliveryCompensationFailed,
			wantCompensated: true,
			wantErrs:        []error{domainerrors.ErrCodeDeliveryFailed, sendErr, compErr},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)
			fx.sender.err = tt.sendErr

			compensated := false
			result, err := fx.service.runCodeDelivery(context.Background(), testDelivery(tt.stageErr, tt.compErr, &compensated))

			require.NotNil(t, result)
			assert.Equal(t, tt.wantState, result.state)
			assert.Equal(t, tt.wantCompensated, compensated)
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestRunCodeDelivery_CompensatesAfterCancellation(t *testing.T) {
	fx := createTestAccountService(t)
	fx.sender.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	compensated := false
	op := testDelivery(nil, nil, &compensated)
	op.compensate = func(ctx context.Context, _ repository.RepositoryFactory, _ *entity.Account) error {
		compensated = ctx.Err() == nil

		return nil
	}

	cancel()
	result, err := fx.service.runCodeDelivery(ctx, op)

	assert.ErrorIs(t, err, domainerrors.ErrCodeDeliveryFailed)
	assert.Equal(t, deliveryCompensated, result.state)
	assert.True(t, compensated)
}

func TestDeliveryState_String(t *testing.T) {
	assert.Equal(t, "compensation_failed", deliveryCompensationFailed.String())
	assert.Equal(t, "unknown", deliveryState(42).String())
}
