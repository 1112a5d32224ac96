// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gramosi/config"
	deliverycontext "gramosi/internal/delivery/context"
	"gramosi/internal/domain/constants"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
	"gramosi/internal/usecase"
	"gramosi/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	defaultVerificationTTL = 24 * time.Hour
	defaultResetTTL        = 5 * time.Minute

	subjectVerificationOTP = "OTP for Email Verification"
	subjectResetOTP        = "Password Reset OTP"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager       repository.TransactionManager
	hasher          service.PasswordHasher
	otpGenerator    service.OTPGenerator
	tokenService    service.TokenService
	sender          service.NotificationSender
	renderer        service.TemplateRenderer
	publisher       service.EventPublisher
	verificationTTL time.Duration
	resetTTL        time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	OTPGenerator service.OTPGenerator
	TokenService service.TokenService
	Sender       service.NotificationSender
	Renderer     service.TemplateRenderer
	Publisher    service.EventPublisher
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	verificationTTL, resetTTL := defaultVerificationTTL, defaultResetTTL
	if params.Config != nil && params.Config.OTP != nil {
		if params.Config.OTP.VerificationTTL > 0 {
			verificationTTL = params.Config.OTP.VerificationTTL
		}
		if params.Config.OTP.ResetTTL > 0 {
			resetTTL = params.Config.OTP.ResetTTL
		}
	}

	return &accountService{
		txManager:       params.TxManager,
		hasher:          params.Hasher,
		otpGenerator:    params.OTPGenerator,
		tokenService:    params.TokenService,
		sender:          params.Sender,
		renderer:        params.Renderer,
		publisher:       params.Publisher,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		now:             time.Now,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account and delivers its verification code. When
// delivery fails the account is deleted again.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	userName := entity.NormalizeUserName(input.UserName)
	email := entity.NormalizeEmail(input.Email)

	if err := validateRegistration(userName, email, input.Password, input.PasswordConfirm); err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	code, err := srv.otpGenerator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate verification code")
	}

	result, err := srv.runCodeDelivery(ctx, &codeDelivery{
		operation: "register",
		stage: func(ctx context.Context, repos repository.RepositoryFactory) (*entity.Account, error) {
			accountRepo := repos.AccountRepo()

			if err := ensureIdentityAvailable(ctx, accountRepo, userName, email); err != nil {
				return nil, err
			}

			account := &entity.Account{
				UserName:     userName,
				Email:        email,
				PasswordHash: passwordHash,
			}
			account.IssueVerificationOTP(code, srv.now().Add(srv.verificationTTL))

			if err := accountRepo.Create(ctx, account); err != nil {
				return nil, translateDuplicate(err)
			}

			return account, nil
		},
		message: func(account *entity.Account) outboundCode {
			return outboundCode{
				to:       account.Email,
				subject:  subjectVerificationOTP,
				template: service.TemplateVerificationOTP,
				vars:     codeVars(account.UserName, code, srv.verificationTTL),
			}
		},
		compensate: func(ctx context.Context, repos repository.RepositoryFactory, account *entity.Account) error {
			err := repos.AccountRepo().Delete(ctx, account.ID)
			if errors.Is(err, repository.ErrAccountNotFound) {
				return nil
			}

			return err
		},
	})
	if err != nil {
		return nil, err
	}

	account := result.account
	srv.log(ctx).Info("Account registered", slog.String("account_id", account.ID.String()))
	srv.publish(ctx, service.EventAccountRegistered, account.ID, map[string]string{"user_name": account.UserName})

	return srv.authenticated(account)
}

// Verify consumes the verification code of the caller's account.
func (srv *accountService) Verify(ctx context.Context, input usecase.VerifyInput) (*usecase.AuthOutput, error) {
	code := strings.TrimSpace(input.OTP)
	if code == "" {
		return nil, domainerrors.ErrOTPRequired
	}

	var verified *entity.Account
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		accountRepo := repos.AccountRepo()

		account, err := findAccountByID(ctx, accountRepo, input.AccountID)
		if err != nil {
			return err
		}

		if !account.MatchVerificationOTP(code) {
			return domainerrors.ErrInvalidOTP
		}
		if account.VerificationOTPExpired(srv.now()) {
			return domainerrors.ErrInvalidOTP.WithDetails("the code has expired, request a new one")
		}

		account.MarkVerified()
		if err := accountRepo.UpdateCredentials(ctx, account); err != nil {
			return errors.Wrap(err, "failed to persist verification")
		}
		verified = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Account verified", slog.String("account_id", verified.ID.String()))
	srv.publish(ctx, service.EventAccountVerified, verified.ID, nil)

	return srv.authenticated(verified)
}

// ResendOTP issues a new verification code. When delivery fails the code is
// cleared, leaving the account without an active code.
func (srv *accountService) ResendOTP(ctx context.Context, accountID uuid.UUID) error {
	code, err := srv.otpGenerator.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate verification code")
	}

	_, err = srv.runCodeDelivery(ctx, &codeDelivery{
		operation: "resend_otp",
		stage: func(ctx context.Context, repos repository.RepositoryFactory) (*entity.Account, error) {
			accountRepo := repos.AccountRepo()

			account, err := findAccountByID(ctx, accountRepo, accountID)
			if err != nil {
				return nil, err
			}
			if account.IsVerified {
				return nil, domainerrors.ErrAlreadyVerified
			}

			account.IssueVerificationOTP(code, srv.now().Add(srv.verificationTTL))
			if err := accountRepo.UpdateCredentials(ctx, account); err != nil {
				return nil, errors.Wrap(err, "failed to store verification code")
			}

			return account, nil
		},
		message: func(account *entity.Account) outboundCode {
			return outboundCode{
				to:       account.Email,
				subject:  subjectVerificationOTP,
				template: service.TemplateVerificationOTP,
				vars:     codeVars(account.UserName, code, srv.verificationTTL),
			}
		},
		compensate: func(ctx context.Context, repos repository.RepositoryFactory, staged *entity.Account) error {
			accountRepo := repos.AccountRepo()

			account, err := accountRepo.FindByID(ctx, staged.ID)
			if err != nil {
				return err
			}
			// A concurrent resend may have replaced the code; leave its code alone.
			if !account.MatchVerificationOTP(code) {
				return nil
			}

			account.ClearVerificationOTP()

			return accountRepo.UpdateCredentials(ctx, account)
		},
	})

	return err
}

// Login checks the password before the verification flag so that only the
// password holder learns an account is unverified.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("identifier and password are required")
	}

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := repos.AccountRepo().FindByIdentifier(ctx, identifier)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find account")
		}
		account = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Debug("Login rejected, wrong password", slog.String("account_id", account.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if !account.IsVerified {
		return nil, domainerrors.ErrAccountNotVerified
	}

	return srv.authenticated(account)
}

// ForgotPassword issues a reset code and delivers it. When delivery fails the
// reset code is cleared again.
func (srv *accountService) ForgotPassword(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domainerrors.ErrValidationFailed.WithDetails("identifier is required")
	}

	code, err := srv.otpGenerator.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset code")
	}

	_, err = srv.runCodeDelivery(ctx, &codeDelivery{
		operation: "forgot_password",
		stage: func(ctx context.Context, repos repository.RepositoryFactory) (*entity.Account, error) {
			accountRepo := repos.AccountRepo()

			account, err := accountRepo.FindByIdentifier(ctx, identifier)
			if err != nil {
				if errors.Is(err, repository.ErrAccountNotFound) {
					return nil, domainerrors.ErrAccountNotFound
				}

				return nil, errors.Wrap(err, "failed to find account")
			}

			account.IssueResetOTP(code, srv.now().Add(srv.resetTTL))
			if err := accountRepo.UpdateCredentials(ctx, account); err != nil {
				return nil, errors.Wrap(err, "failed to store reset code")
			}

			return account, nil
		},
		message: func(account *entity.Account) outboundCode {
			return outboundCode{
				to:       account.Email,
				subject:  subjectResetOTP,
				template: service.TemplateResetOTP,
				vars:     codeVars(account.UserName, code, srv.resetTTL),
			}
		},
		compensate: func(ctx context.Context, repos repository.RepositoryFactory, staged *entity.Account) error {
			accountRepo := repos.AccountRepo()

			account, err := accountRepo.FindByID(ctx, staged.ID)
			if err != nil {
				return err
			}
			if account.ResetOTPCode == nil || *account.ResetOTPCode != code {
				return nil
			}

			account.ClearResetOTP()

			return accountRepo.UpdateCredentials(ctx, account)
		},
	})

	return err
}

// ResetPassword matches identifier, code and expiry in one lookup and does not
// reveal which of them failed.
func (srv *accountService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) (*usecase.AuthOutput, error) {
	identifier := strings.TrimSpace(input.Identifier)
	code := strings.TrimSpace(input.OTP)
	if identifier == "" || code == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("identifier and otp are required")
	}
	if err := validateNewPassword(input.Password, input.PasswordConfirm); err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		accountRepo := repos.AccountRepo()

		found, err := accountRepo.FindByIdentifierAndResetOTP(ctx, identifier, code, srv.now())
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrResetCodeNotMatched
			}

			return errors.Wrap(err, "failed to find account by reset code")
		}

		found.PasswordHash = passwordHash
		found.ClearResetOTP()
		if err := accountRepo.UpdateCredentials(ctx, found); err != nil {
			return errors.Wrap(err, "failed to store new password")
		}
		account = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Password reset", slog.String("account_id", account.ID.String()))

	return srv.authenticated(account)
}

// ChangePassword re-reads the stored hash rather than trusting the session copy.
func (srv *accountService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) (*usecase.AuthOutput, error) {
	if input.CurrentPassword == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("currentPassword is required")
	}

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := findAccountByID(ctx, repos.AccountRepo(), input.AccountID)
		if err != nil {
			return err
		}
		account = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCurrentPassword
	}
	if err := validateNewPassword(input.NewPassword, input.NewPasswordConfirm); err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		account.PasswordHash = passwordHash

		return errors.Wrap(repos.AccountRepo().UpdateCredentials(ctx, account), "failed to store new password")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Password changed", slog.String("account_id", account.ID.String()))

	return srv.authenticated(account)
}

func (srv *accountService) authenticated(account *entity.Account) (*usecase.AuthOutput, error) {
	session, err := srv.tokenService.Issue(account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	return &usecase.AuthOutput{Account: sanitize(account), Session: session}, nil
}

func (srv *accountService) publish(ctx context.Context, eventType string, aggregateID uuid.UUID, data map[string]string) {
	publishEvent(ctx, srv.publisher, srv.log(ctx), srv.now(), eventType, aggregateID, data)
}

// sanitize drops credential material before an account leaves the use case.
func sanitize(account *entity.Account) *entity.Account {
	clean := *account
	clean.PasswordHash = ""
	clean.ClearVerificationOTP()
	clean.ClearResetOTP()

	return &clean
}

func findAccountByID(ctx context.Context, accountRepo repository.AccountRepository, id uuid.UUID) (*entity.Account, error) {
	account, err := accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return account, nil
}

func ensureIdentityAvailable(ctx context.Context, accountRepo repository.AccountRepository, userName, email string) error {
	emailTaken, err := accountRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return errors.Wrap(err, "failed to check email")
	}
	if emailTaken {
		return domainerrors.ErrEmailTaken
	}

	userNameTaken, err := accountRepo.ExistsByUserName(ctx, userName)
	if err != nil {
		return errors.Wrap(err, "failed to check user name")
	}
	if userNameTaken {
		return domainerrors.ErrUserNameTaken
	}

	return nil
}

// translateDuplicate maps a unique index violation raised between the
// availability check and the insert.
func translateDuplicate(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return domainerrors.ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateUserName):
		return domainerrors.ErrUserNameTaken
	case errors.Is(err, repository.ErrDuplicateAccount):
		return domainerrors.ErrAccountTaken
	default:
		return errors.Wrap(err, "failed to create account")
	}
}

func validateRegistration(userName, email, password, passwordConfirm string) error {
	if userName == "" || email == "" || password == "" || passwordConfirm == "" {
		return domainerrors.ErrValidationFailed.WithDetails("userName, email, password and passwordConfirm are required")
	}
	if n := len([]rune(userName)); n < constants.MinUserNameLength || n > constants.MaxUserNameLength {
		return domainerrors.ErrValidationFailed.WithDetails("userName must be between 3 and 30 characters")
	}
	// Login and reset resolve one identifier against both columns.
	if strings.Contains(userName, "@") {
		return domainerrors.ErrValidationFailed.WithDetails("userName must not contain @")
	}

	return validateNewPassword(password, passwordConfirm)
}

func validateNewPassword(password, passwordConfirm string) error {
	if password == "" || passwordConfirm == "" {
		return domainerrors.ErrValidationFailed.WithDetails("password and passwordConfirm are required")
	}
	if len(password) < constants.MinPasswordLength {
		return domainerrors.ErrValidationFailed.WithDetails("password must be at least 8 characters")
	}
	if password != passwordConfirm {
		return domainerrors.ErrPasswordMismatch
	}

	return nil
}

func codeVars(userName, code string, ttl time.Duration) map[string]string {
	return map[string]string{
		"userName":  userName,
		"otp":       code,
		"expiresIn": util.HumanizeDuration(ttl),
	}
}
