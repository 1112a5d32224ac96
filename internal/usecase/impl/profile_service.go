package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	deliverycontext "gramosi/internal/delivery/context"
	"gramosi/internal/domain/constants"
	"gramosi/internal/domain/entity"
	domainerrors "gramosi/internal/domain/errors"
	"gramosi/internal/domain/repository"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"
	"gramosi/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type profileService struct {
	txManager repository.TransactionManager
	storage   service.MediaStorage
	processor service.MediaProcessor
	qrService service.QRCodeService
	publisher service.EventPublisher
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Storage   service.MediaStorage
	Processor service.MediaProcessor
	QRService service.QRCodeService
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		storage:   params.Storage,
		processor: params.Processor,
		qrService: params.QRService,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile hides the email of anyone but the viewer.
func (srv *profileService) GetProfile(ctx context.Context, viewerID, accountID uuid.UUID) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		account, err := findAccountByID(ctx, repos.AccountRepo(), accountID)
		if err != nil {
			return err
		}

		profile, err = buildProfile(ctx, repos, viewerID, account)

		return err
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// ResolveProfileQR looks up the profile a scanned share code points at.
func (srv *profileService) ResolveProfileQR(ctx context.Context, viewerID uuid.UUID, qrData string) (*entity.Profile, error) {
	qrData = strings.TrimSpace(qrData)
	if qrData == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("qr data is required")
	}

	userName, err := srv.qrService.ParseProfileQR(qrData)
	if err != nil {
		srv.log(ctx).Debug("Rejected profile QR code", slog.String("error", err.Error()))

		return nil, domainerrors.ErrValidationFailed.WithDetails("not a profile QR code")
	}

	var profile *entity.Profile
	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		account, err := repos.AccountRepo().FindByIdentifier(ctx, userName)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find account")
		}
		// The identifier lookup also matches emails; share codes only carry user names.
		if account.UserName != userName {
			return domainerrors.ErrUserNotFound
		}

		profile, err = buildProfile(ctx, repos, viewerID, account)

		return err
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// buildProfile attaches the social counters to account as seen by viewerID.
func buildProfile(ctx context.Context, repos repository.RepositoryFactory, viewerID uuid.UUID, account *entity.Account) (*entity.Profile, error) {
	profile := &entity.Profile{}
	if viewerID == account.ID {
		profile.Account = sanitize(account)
	} else {
		profile.Account = account.Public()
	}

	var err error
	followRepo := repos.FollowRepo()
	if profile.FollowerCount, err = followRepo.CountFollowers(ctx, account.ID); err != nil {
		return nil, errors.Wrap(err, "failed to count followers")
	}
	if profile.FollowingCount, err = followRepo.CountFollowing(ctx, account.ID); err != nil {
		return nil, errors.Wrap(err, "failed to count following")
	}
	if profile.PostCount, err = repos.PostRepo().CountByAuthor(ctx, account.ID); err != nil {
		return nil, errors.Wrap(err, "failed to count posts")
	}

	if viewerID != uuid.Nil && viewerID != account.ID {
		if profile.IsFollowing, err = followRepo.IsFollowing(ctx, viewerID, account.ID); err != nil {
			return nil, errors.Wrap(err, "failed to check follow relation")
		}
	}

	return profile, nil
}

// UpdateProfile stores a new picture before the row update and removes the
// superseded object afterwards.
func (srv *profileService) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*entity.Account, error) {
	if input.Bio != nil && utf8.RuneCountInString(*input.Bio) > constants.MaxBioLength {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("bio must be at most %d characters", constants.MaxBioLength))
	}

	var picture *entity.MediaRef
	if len(input.Picture) > 0 {
		prepared, err := srv.processor.Prepare(input.Picture, false)
		if err != nil {
			return nil, err
		}

		key := fmt.Sprintf("profiles/%s/%s%s", input.AccountID, uuid.NewString(), prepared.Extension)
		url, err := srv.storage.Put(ctx, key, prepared.ContentType, prepared.Data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store profile picture")
		}
		picture = &entity.MediaRef{URL: url, Key: key, Type: entity.MediaTypeImage}
	}

	var (
		updated *entity.Account
		oldKey  string
	)
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		accountRepo := repos.AccountRepo()

		account, err := findAccountByID(ctx, accountRepo, input.AccountID)
		if err != nil {
			return err
		}

		if input.Bio != nil {
			account.Bio = *input.Bio
		}
		if picture != nil {
			oldKey = account.ProfilePicture.Key
			account.ProfilePicture = *picture
		}

		if err := accountRepo.UpdateProfile(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}
		updated = account

		return nil
	})
	if err != nil {
		if picture != nil {
			srv.removeMedia(ctx, input.AccountID, picture.Key)
		}

		return nil, err
	}

	if oldKey != "" {
		srv.removeMedia(ctx, input.AccountID, oldKey)
	}

	return sanitize(updated), nil
}

func (srv *profileService) SuggestedUsers(ctx context.Context, viewerID uuid.UUID) ([]*entity.AccountSummary, error) {
	var suggested []*entity.AccountSummary

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		found, err := repos.AccountRepo().ListSuggested(ctx, viewerID, constants.SuggestedUsersLimit)
		if err != nil {
			return errors.Wrap(err, "failed to list suggested users")
		}
		suggested = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return suggested, nil
}

// ToggleFollow flips the follow relation from followerID to followeeID.
func (srv *profileService) ToggleFollow(ctx context.Context, followerID, followeeID uuid.UUID) (*usecase.FollowOutput, error) {
	if followerID == followeeID {
		return nil, domainerrors.ErrCannotFollowSelf
	}

	output := &usecase.FollowOutput{}
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if _, err := findAccountByID(ctx, repos.AccountRepo(), followeeID); err != nil {
			return err
		}

		followRepo := repos.FollowRepo()

		following, err := followRepo.IsFollowing(ctx, followerID, followeeID)
		if err != nil {
			return errors.Wrap(err, "failed to check follow relation")
		}

		if following {
			err = followRepo.Unfollow(ctx, followerID, followeeID)
		} else {
			err = followRepo.Follow(ctx, followerID, followeeID)
		}
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to toggle follow")
		}
		output.Following = !following

		if output.FollowerCount, err = followRepo.CountFollowers(ctx, followeeID); err != nil {
			return errors.Wrap(err, "failed to count followers")
		}
		if output.FollowingCount, err = followRepo.CountFollowing(ctx, followerID); err != nil {
			return errors.Wrap(err, "failed to count following")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func (srv *profileService) ProfileQR(ctx context.Context, accountID uuid.UUID) ([]byte, error) {
	var userName string

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		account, err := findAccountByID(ctx, repos.AccountRepo(), accountID)
		if err != nil {
			return err
		}
		userName = account.UserName

		return nil
	})
	if err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateProfileQR(userName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate profile QR code")
	}

	return png, nil
}

// removeMedia deletes key and hands it to the media worker when that fails.
func (srv *profileService) removeMedia(ctx context.Context, ownerID uuid.UUID, key string) {
	removeMediaObject(ctx, srv.storage, srv.publisher, srv.log(ctx), ownerID, key)
}
