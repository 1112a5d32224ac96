package postgres

import (
	"context"
	"strings"
	"time"

	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/errors"
	"gramosi/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	constraintAccountEmail    = "accounts_email_key"
	constraintAccountUserName = "accounts_user_name_key"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts the account and copies back the generated ID and timestamps.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case constraintAccountEmail:
				return repository.ErrDuplicateEmail
			case constraintAccountUserName:
				return repository.ErrDuplicateUserName
			default:
				return repository.ErrDuplicateAccount
			}
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&accountM).Error; err != nil {
		return nil, repo.translateFindError(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByIdentifier matches a case-insensitive email or an exact user name.
// An email match wins over a user name match.
func (repo *accountRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := byIdentifier(repo.db.WithContext(ctx), identifier).Take(&accountM).Error
	if err != nil {
		return nil, repo.translateFindError(err, "failed to find account by identifier")
	}

	return toAccountDomain(&accountM), nil
}

// FindByIdentifierAndResetOTP resolves a reset request in one query so a wrong
// identifier, a wrong code and an expired code are indistinguishable.
func (repo *accountRepository) FindByIdentifierAndResetOTP(ctx context.Context, identifier, code string, now time.Time) (*entity.Account, error) {
	var accountM model.AccountModel
	err := byIdentifier(repo.db.WithContext(ctx), identifier).
		Where("reset_otp_code = ?", code).
		Where("reset_otp_expires_at > ?", now).
		Take(&accountM).Error
	if err != nil {
		return nil, repo.translateFindError(err, "failed to find account by reset code")
	}

	return toAccountDomain(&accountM), nil
}

// byIdentifier scopes a single-row account lookup to an email or user name,
// ranking the email match first. Callers must use Take: First replaces the ordering.
func byIdentifier(db *gorm.DB, identifier string) *gorm.DB {
	email := entity.NormalizeEmail(identifier)

	return db.
		Where("email = ? OR user_name = ?", email, strings.TrimSpace(identifier)).
		Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "(email = ?) DESC", Vars: []any{email}}})
}

func (repo *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return repo.exists(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (repo *accountRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	return repo.exists(ctx, "user_name = ?", entity.NormalizeUserName(userName))
}

// UpdateCredentials writes only the credential and code columns.
func (repo *accountRepository) UpdateCredentials(ctx context.Context, account *entity.Account) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"password_hash":        account.PasswordHash,
			"is_verified":          account.IsVerified,
			"otp_code":             account.OTPCode,
			"otp_expires_at":       account.OTPExpiresAt,
			"reset_otp_code":       account.ResetOTPCode,
			"reset_otp_expires_at": account.ResetOTPExpiresAt,
			"updated_at":           now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account credentials")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = now

	return nil
}

// UpdateProfile writes bio and profile picture columns.
func (repo *accountRepository) UpdateProfile(ctx context.Context, account *entity.Account) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"bio":                 account.Bio,
			"profile_picture_url": account.ProfilePicture.URL,
			"profile_picture_key": account.ProfilePicture.Key,
			"updated_at":          now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = now

	return nil
}

// Delete removes the account; dependent rows cascade in the schema.
func (repo *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccountModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// ListSuggested returns the newest accounts other than excludeID.
func (repo *accountRepository) ListSuggested(ctx context.Context, excludeID uuid.UUID, limit int) ([]*entity.AccountSummary, error) {
	var accountsM []model.AccountModel
	err := repo.db.WithContext(ctx).
		Select("id", "user_name", "bio", "profile_picture_url").
		Where("id <> ?", excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&accountsM).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list suggested accounts")
	}

	summaries := make([]*entity.AccountSummary, 0, len(accountsM))
	for i := range accountsM {
		summaries = append(summaries, toAccountSummary(&accountsM[i]))
	}

	return summaries, nil
}

func (repo *accountRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.AccountModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check account existence")
	}

	return count > 0, nil
}

func (repo *accountRepository) translateFindError(err error, details string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrAccountNotFound
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}
