package repository

import (
	"context"
	"testing"
	"time"

	"gramosi/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a mock whose expectations are asserted at test cleanup.
func NewMockAccountRepository(t *testing.T) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Account)

	return r0, args.Error(1)
}

func (m *MockAccountRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.Account, error) {
	args := m.Called(ctx, identifier)
	r0, _ := args.Get(0).(*entity.Account)

	return r0, args.Error(1)
}

func (m *MockAccountRepository) FindByIdentifierAndResetOTP(ctx context.Context, identifier string, code string, now time.Time) (*entity.Account, error) {
	args := m.Called(ctx, identifier, code, now)
	r0, _ := args.Get(0).(*entity.Account)

	return r0, args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)

	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	args := m.Called(ctx, userName)

	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdateCredentials(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockAccountRepository) ListSuggested(ctx context.Context, excludeID uuid.UUID, limit int) ([]*entity.AccountSummary, error) {
	args := m.Called(ctx, excludeID, limit)
	r0, _ := args.Get(0).([]*entity.AccountSummary)

	return r0, args.Error(1)
}

// MockFollowRepository is a mock of repository.FollowRepository.
type MockFollowRepository struct {
	mock.Mock
}

// NewMockFollowRepository creates a mock whose expectations are asserted at test cleanup.
func NewMockFollowRepository(t *testing.T) *MockFollowRepository {
	m := &MockFollowRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFollowRepository) Follow(ctx context.Context, followerID uuid.UUID, followeeID uuid.UUID) error {
	args := m.Called(ctx, followerID, followeeID)

	return args.Error(0)
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, followerID uuid.UUID, followeeID uuid.UUID) error {
	args := m.Called(ctx, followerID, followeeID)

	return args.Error(0)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID uuid.UUID, followeeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)

	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}
