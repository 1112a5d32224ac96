package impl

import (
	"context"
	"testing"
	"time"

	"gramosi/config"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
	"gramosi/internal/infra/auth"
	"gramosi/internal/infra/mail"
	"gramosi/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service   *accountService
	store     *memStore
	sender    *recordingSender
	publisher *recordingPublisher
	otp       *sequenceOTP
	clock     *testClock
	tokens    service.TokenService
	hasher    service.PasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	cfg := &config.Config{
		Session: &config.SessionConfig{SigningKey: "test-signing-key", TTL: time.Hour},
		OTP:     &config.OTPConfig{VerificationTTL: 24 * time.Hour, ResetTTL: 5 * time.Minute},
	}

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	renderer, err := mail.NewTemplateRenderer()
	require.NoError(t, err)

	fx := accountServiceFixtures{
		store:     newMemStore(),
		sender:    &recordingSender{},
		publisher: &recordingPublisher{},
		otp:       &sequenceOTP{codes: []string{"111111", "222222", "333333", "444444", "555555", "666666"}},
		clock:     &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		tokens:    tokens,
		hasher:    auth.NewBcryptHasherWithCost(bcrypt.MinCost),
	}

	svc := NewAccountService(AccountServiceParams{
		TxManager:    fx.store,
		Hasher:       fx.hasher,
		OTPGenerator: fx.otp,
		TokenService: fx.tokens,
		Sender:       fx.sender,
		Renderer:     renderer,
		Publisher:    fx.publisher,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})
	fx.service = svc.(*accountService)
	fx.service.now = fx.clock.Now

	return fx
}

func (fx accountServiceFixtures) register(t *testing.T, userName, email, password string) *usecase.AuthOutput {
	t.Helper()

	output, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		UserName:        userName,
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	})
	require.NoError(t, err)

	return output
}

func (fx accountServiceFixtures) registerVerified(t *testing.T, userName, email, password string) uuid.UUID {
	t.Helper()

	output := fx.register(t, userName, email, password)
	stored, ok := fx.store.account(output.Account.ID)
	require.True(t, ok)

	_, err := fx.service.Verify(context.Background(), usecase.VerifyInput{AccountID: stored.ID, OTP: *stored.OTPCode})
	require.NoError(t, err)

	return stored.ID
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	output := fx.register(t, " alice ", "Alice@Example.com", "secret123")

	require.NotNil(t, output.Session)
	claims, err := fx.tokens.Validate(output.Session.Value)
	require.NoError(t, err)
	assert.Equal(t, output.Account.ID, claims.AccountID)

	assert.Equal(t, "alice", output.Account.UserName)
	assert.Equal(t, "alice@example.com", output.Account.Email)
	assert.Empty(t, output.Account.PasswordHash)
	assert.Nil(t, output.Account.OTPCode)
	assert.False(t, output.Account.IsVerified)

	stored, ok := fx.store.account(output.Account.ID)
	require.True(t, ok)
	assert.False(t, stored.IsVerified)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, fx.hasher.Check("secret123", stored.PasswordHash))
	require.True(t, stored.HasVerificationOTP())
	assert.Equal(t, "111111", *stored.OTPCode)
	assert.Equal(t, fx.clock.Now().Add(24*time.Hour), *stored.OTPExpiresAt)

	sent := fx.sender.last()
	assert.Equal(t, "alice@example.com", sent.to)
	assert.Equal(t, subjectVerificationOTP, sent.subject)
	assert.Contains(t, sent.body, "111111")
	assert.Contains(t, sent.body, "24 hours")

	assert.Equal(t, []string{service.EventAccountRegistered}, fx.publisher.types())
}

func TestAccountService_Register_Uniqueness(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	fx.register(t, "alice", "alice@example.com", "secret123")

	tests := []struct {
		name    string
		input   usecase.RegisterInput
		wantErr error
	}{
		{
			name:    "email differs only in case",
			input:   usecase.RegisterInput{UserName: "alice2", Email: "ALICE@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			wantErr: domainerrors.ErrEmailTaken,
		},
		{
			name:    "user name taken",
			input:   usecase.RegisterInput{UserName: "alice", Email: "other@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			wantErr: domainerrors.ErrUserNameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, fx.store.count())
		})
	}
}

func TestAccountService_Register_DuplicateDetectedOnInsert(t *testing.T) {
	fx := createTestAccountService(t)
	fx.register(t, "alice", "alice@example.com", "secret123")
	fx.store.hideExisting = true

	_, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		UserName:        "alice-two",
		Email:           "alice@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})

	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
	assert.Equal(t, 1, fx.store.count())
}

func TestAccountService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.RegisterInput
		wantErr error
	}{
		{
			name:    "missing email",
			input:   usecase.RegisterInput{UserName: "alice", Password: "secret123", PasswordConfirm: "secret123"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "user name too short",
			input:   usecase.RegisterInput{UserName: "al", Email: "a@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "user name shaped like an email",
			input:   usecase.RegisterInput{UserName: "bob@example.com", Email: "b2@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "password too short",
			input:   usecase.RegisterInput{UserName: "alice", Email: "a@example.com", Password: "short", PasswordConfirm: "short"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "confirmation differs",
			input:   usecase.RegisterInput{UserName: "alice", Email: "a@example.com", Password: "secret123", PasswordConfirm: "secret124"},
			wantErr: domainerrors.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)

			_, err := fx.service.Register(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, fx.store.calls)
			assert.Empty(t, fx.sender.sent)
		})
	}
}

func TestAccountService_Register_DeliveryFailureRollsBack(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	fx.sender.err = errors.New("smtp: connection refused")

	input := usecase.RegisterInput{UserName: "alice", Email: "alice@example.com", Password: "secret123", PasswordConfirm: "secret123"}
	output, err := fx.service.Register(ctx, input)

	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrCodeDeliveryFailed)
	assert.Zero(t, fx.store.count())
	assert.Empty(t, fx.publisher.types())

	// The same identity can register again once mail works.
	fx.sender.err = nil
	_, err = fx.service.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 1, fx.store.count())
}

func TestAccountService_Register_CompensationFailure(t *testing.T) {
	fx := createTestAccountService(t)
	fx.sender.err = errors.New("smtp: connection refused")
	fx.store.failFrom = 2

	_, err := fx.service.Register(context.Background(), usecase.RegisterInput{
		UserName:        "alice",
		Email:           "alice@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})

	assert.ErrorIs(t, err, domainerrors.ErrCodeDeliveryFailed)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, fx.store.count())
}

func TestAccountService_Verify(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	output := fx.register(t, "alice", "alice@example.com", "secret123")
	id := output.Account.ID

	_, err := fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: ""})
	assert.ErrorIs(t, err, domainerrors.ErrOTPRequired)

	_, err = fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: "999999"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)

	verified, err := fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: "111111"})
	require.NoError(t, err)
	assert.True(t, verified.Account.IsVerified)
	assert.NotEmpty(t, verified.Session.Value)

	stored, _ := fx.store.account(id)
	assert.True(t, stored.IsVerified)
	assert.False(t, stored.HasVerificationOTP())

	// Single use: the consumed code no longer matches.
	_, err = fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: "111111"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)

	assert.Equal(t, []string{service.EventAccountRegistered, service.EventAccountVerified}, fx.publisher.types())
}

func TestAccountService_Verify_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantErr bool
	}{
		{name: "one millisecond before expiry", advance: 24*time.Hour - time.Millisecond},
		{name: "at expiry", advance: 24 * time.Hour},
		{name: "one millisecond after expiry", advance: 24*time.Hour + time.Millisecond, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAccountService(t)
			output := fx.register(t, "alice", "alice@example.com", "secret123")
			fx.clock.Advance(tt.advance)

			_, err := fx.service.Verify(context.Background(), usecase.VerifyInput{AccountID: output.Account.ID, OTP: "111111"})

			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)
				stored, _ := fx.store.account(output.Account.ID)
				assert.False(t, stored.IsVerified)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAccountService_Verify_UnknownAccount(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Verify(context.Background(), usecase.VerifyInput{AccountID: uuid.New(), OTP: "111111"})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAccountService_ResendOTP(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	output := fx.register(t, "alice", "alice@example.com", "secret123")
	id := output.Account.ID

	fx.clock.Advance(time.Hour)
	require.NoError(t, fx.service.ResendOTP(ctx, id))

	stored, _ := fx.store.account(id)
	assert.Equal(t, "222222", *stored.OTPCode)
	assert.Equal(t, fx.clock.Now().Add(24*time.Hour), *stored.OTPExpiresAt)
	assert.Contains(t, fx.sender.last().body, "222222")

	_, err := fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: "111111"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)

	_, err = fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: "222222"})
	require.NoError(t, err)

	err = fx.service.ResendOTP(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
}

func TestAccountService_ResendOTP_DeliveryFailureClearsCode(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	output := fx.register(t, "alice", "alice@example.com", "secret123")
	fx.sender.err = errors.New("smtp: timeout")

	err := fx.service.ResendOTP(ctx, output.Account.ID)

	assert.ErrorIs(t, err, domainerrors.ErrCodeDeliveryFailed)
	stored, ok := fx.store.account(output.Account.ID)
	require.True(t, ok)
	assert.False(t, stored.HasVerificationOTP())
	assert.False(t, stored.IsVerified)
}

func TestAccountService_Login(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	unverified := fx.register(t, "bob", "bob@example.com", "secret123")
	verifiedID := fx.registerVerified(t, "alice", "alice@example.com", "secret123")

	tests := []struct {
		name    string
		input   usecase.LoginInput
		wantID  uuid.UUID
		wantErr error
	}{
		{name: "by email, any case", input: usecase.LoginInput{Identifier: "ALICE@example.com", Password: "secret123"}, wantID: verifiedID},
		{name: "by user name", input: usecase.LoginInput{Identifier: "alice", Password: "secret123"}, wantID: verifiedID},
		{name: "wrong password", input: usecase.LoginInput{Identifier: "alice", Password: "wrong-pass"}, wantErr: domainerrors.ErrInvalidCredentials},
		{name: "unknown identifier", input: usecase.LoginInput{Identifier: "carol", Password: "secret123"}, wantErr: domainerrors.ErrInvalidCredentials},
		{name: "unverified with right password", input: usecase.LoginInput{Identifier: "bob", Password: "secret123"}, wantErr: domainerrors.ErrAccountNotVerified},
		{name: "unverified with wrong password", input: usecase.LoginInput{Identifier: "bob", Password: "nope-nope"}, wantErr: domainerrors.ErrInvalidCredentials},
		{name: "missing password", input: usecase.LoginInput{Identifier: "alice"}, wantErr: domainerrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := fx.service.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, output)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, output.Account.ID)
			assert.NotEmpty(t, output.Session.Value)
		})
	}

	assert.NotEqual(t, verifiedID, unverified.Account.ID)
}

func TestAccountService_EmailIdentifierCannotBeClaimedAsUserName(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	bobID := fx.registerVerified(t, "bob", "bob@example.com", "secret123")

	_, err := fx.service.Register(ctx, usecase.RegisterInput{
		UserName:        "bob@example.com",
		Email:           "mallory@example.com",
		Password:        "other-pass",
		PasswordConfirm: "other-pass",
	})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	for range 10 {
		output, err := fx.service.Login(ctx, usecase.LoginInput{Identifier: "bob@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, bobID, output.Account.ID)
	}
}

func TestAccountService_ForgotAndResetPassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	id := fx.registerVerified(t, "alice", "alice@example.com", "secret123")

	require.NoError(t, fx.service.ForgotPassword(ctx, "alice@example.com"))
	first := fx.sender.last()
	assert.Equal(t, subjectResetOTP, first.subject)
	assert.Contains(t, first.body, "222222")
	assert.Contains(t, first.body, "5 minutes")

	// A second request overwrites the first code.
	require.NoError(t, fx.service.ForgotPassword(ctx, "alice"))

	reset := func(code string) error {
		_, err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
			Identifier:      "alice",
			OTP:             code,
			Password:        "newsecret1",
			PasswordConfirm: "newsecret1",
		})

		return err
	}

	assert.ErrorIs(t, reset("222222"), domainerrors.ErrResetCodeNotMatched)
	require.NoError(t, reset("333333"))
	assert.ErrorIs(t, reset("333333"), domainerrors.ErrResetCodeNotMatched)

	stored, _ := fx.store.account(id)
	assert.Nil(t, stored.ResetOTPCode)
	assert.Nil(t, stored.ResetOTPExpiresAt)

	_, err := fx.service.Login(ctx, usecase.LoginInput{Identifier: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = fx.service.Login(ctx, usecase.LoginInput{Identifier: "alice", Password: "newsecret1"})
	assert.NoError(t, err)
}

func TestAccountService_ResetPassword_Expired(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	fx.registerVerified(t, "alice", "alice@example.com", "secret123")
	require.NoError(t, fx.service.ForgotPassword(ctx, "alice"))

	fx.clock.Advance(5 * time.Minute)

	_, err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Identifier:      "alice",
		OTP:             "222222",
		Password:        "newsecret1",
		PasswordConfirm: "newsecret1",
	})

	assert.ErrorIs(t, err, domainerrors.ErrResetCodeNotMatched)
}

func TestAccountService_ForgotPassword_Errors(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	id := fx.registerVerified(t, "alice", "alice@example.com", "secret123")

	assert.ErrorIs(t, fx.service.ForgotPassword(ctx, " "), domainerrors.ErrValidationFailed)
	assert.ErrorIs(t, fx.service.ForgotPassword(ctx, "nobody"), domainerrors.ErrAccountNotFound)

	fx.sender.err = errors.New("smtp: timeout")
	err := fx.service.ForgotPassword(ctx, "alice")

	assert.ErrorIs(t, err, domainerrors.ErrCodeDeliveryFailed)
	stored, _ := fx.store.account(id)
	assert.Nil(t, stored.ResetOTPCode)
}

func TestAccountService_ChangePassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	id := fx.registerVerified(t, "alice", "alice@example.com", "secret123")

	tests := []struct {
		name    string
		input   usecase.ChangePasswordInput
		wantErr error
	}{
		{
			name:    "wrong current password",
			input:   usecase.ChangePasswordInput{AccountID: id, CurrentPassword: "wrong-pass", NewPassword: "newsecret1", NewPasswordConfirm: "newsecret1"},
			wantErr: domainerrors.ErrInvalidCurrentPassword,
		},
		{
			name:    "confirmation differs",
			input:   usecase.ChangePasswordInput{AccountID: id, CurrentPassword: "secret123", NewPassword: "newsecret1", NewPasswordConfirm: "newsecret2"},
			wantErr: domainerrors.ErrPasswordMismatch,
		},
		{
			name:    "unknown account",
			input:   usecase.ChangePasswordInput{AccountID: uuid.New(), CurrentPassword: "secret123", NewPassword: "newsecret1", NewPasswordConfirm: "newsecret1"},
			wantErr: domainerrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.ChangePassword(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	output, err := fx.service.ChangePassword(ctx, usecase.ChangePasswordInput{
		AccountID:          id,
		CurrentPassword:    "secret123",
		NewPassword:        "newsecret1",
		NewPasswordConfirm: "newsecret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.Session.Value)

	stored, _ := fx.store.account(id)
	assert.True(t, fx.hasher.Check("newsecret1", stored.PasswordHash))
}

// TestAccountService_AliceJourney walks one account through its whole lifecycle.
func TestAccountService_AliceJourney(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	registered := fx.register(t, "alice", "alice@example.com", "secret123")
	id := registered.Account.ID
	assert.False(t, registered.Account.IsVerified)

	_, err := fx.service.Login(ctx, usecase.LoginInput{Identifier: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotVerified)

	fx.clock.Advance(10 * time.Minute)
	_, err = fx.service.Verify(ctx, usecase.VerifyInput{AccountID: id, OTP: "111111"})
	require.NoError(t, err)

	loggedIn, err := fx.service.Login(ctx, usecase.LoginInput{Identifier: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, id, loggedIn.Account.ID)

	require.NoError(t, fx.service.ForgotPassword(ctx, "alice@example.com"))
	fx.clock.Advance(4 * time.Minute)
	_, err = fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Identifier:      "alice@example.com",
		OTP:             "222222",
		Password:        "brandnew1",
		PasswordConfirm: "brandnew1",
	})
	require.NoError(t, err)

	_, err = fx.service.ChangePassword(ctx, usecase.ChangePasswordInput{
		AccountID:          id,
		CurrentPassword:    "brandnew1",
		NewPassword:        "finalpass1",
		NewPasswordConfirm: "finalpass1",
	})
	require.NoError(t, err)

	final, err := fx.service.Login(ctx, usecase.LoginInput{Identifier: "alice", Password: "finalpass1"})
	require.NoError(t, err)
	assert.True(t, final.Account.IsVerified)

	stored, _ := fx.store.account(id)
	assert.False(t, stored.HasVerificationOTP())
	assert.Nil(t, stored.ResetOTPCode)
	assert.Len(t, fx.sender.sent, 2)
}

func TestSanitize_DropsCredentials(t *testing.T) {
	code := "123456"
	expires := time.Now()
	account := &entity.Account{
		ID:                uuid.New(),
		UserName:          "alice",
		Email:             "alice@example.com",
		PasswordHash:      "hash",
		OTPCode:           &code,
		OTPExpiresAt:      &expires,
		ResetOTPCode:      &code,
		ResetOTPExpiresAt: &expires,
	}

	clean := sanitize(account)

	assert.Empty(t, clean.PasswordHash)
	assert.Nil(t, clean.OTPCode)
	assert.Nil(t, clean.ResetOTPCode)
	assert.Equal(t, "alice@example.com", clean.Email)
	assert.Equal(t, "hash", account.PasswordHash)
}
