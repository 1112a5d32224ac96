// Package usecase provides testify mocks for the application use cases.
package usecase

import (
	"context"
	"testing"

	"gramosi/internal/domain/entity"
	"gramosi/internal/domain/service"
	"gramosi/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountUsecase is a mock of usecase.AccountUsecase.
type MockAccountUsecase struct {
	mock.Mock
}

// NewMockAccountUsecase creates a mock whose expectations are asserted at test cleanup.
func NewMockAccountUsecase(t *testing.T) *MockAccountUsecase {
	m := &MockAccountUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*usecase.AuthOutput)

	return r0, args.Error(1)
}

func (m *MockAccountUsecase) Verify(ctx context.Context, input usecase.VerifyInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*usecase.AuthOutput)

	return r0, args.Error(1)
}

func (m *MockAccountUsecase) ResendOTP(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)

	return args.Error(0)
}

func (m *MockAccountUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*usecase.AuthOutput)

	return r0, args.Error(1)
}

func (m *MockAccountUsecase) ForgotPassword(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)

	return args.Error(0)
}

func (m *MockAccountUsecase) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*usecase.AuthOutput)

	return r0, args.Error(1)
}

func (m *MockAccountUsecase) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) (*usecase.AuthOutput, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*usecase.AuthOutput)

	return r0, args.Error(1)
}

// MockSessionUsecase is a mock of usecase.SessionUsecase.
type MockSessionUsecase struct {
	mock.Mock
}

// NewMockSessionUsecase creates a mock whose expectations are asserted at test cleanup.
func NewMockSessionUsecase(t *testing.T) *MockSessionUsecase {
	m := &MockSessionUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSessionUsecase) Authenticate(ctx context.Context, token string) (*entity.AuthenticatedAccount, error) {
	args := m.Called(ctx, token)
	r0, _ := args.Get(0).(*entity.AuthenticatedAccount)

	return r0, args.Error(1)
}

// MockProfileUsecase is a mock of usecase.ProfileUsecase.
type MockProfileUsecase struct {
	mock.Mock
}

// NewMockProfileUsecase creates a mock whose expectations are asserted at test cleanup.
func NewMockProfileUsecase(t *testing.T) *MockProfileUsecase {
	m := &MockProfileUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProfileUsecase) GetProfile(ctx context.Context, viewerID uuid.UUID, accountID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, viewerID, accountID)
	r0, _ := args.Get(0).(*entity.Profile)

	return r0, args.Error(1)
}

func (m *MockProfileUsecase) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*entity.Account, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*entity.Account)

	return r0, args.Error(1)
}

func (m *MockProfileUsecase) SuggestedUsers(ctx context.Context, viewerID uuid.UUID) ([]*entity.AccountSummary, error) {
	args := m.Called(ctx, viewerID)
	r0, _ := args.Get(0).([]*entity.AccountSummary)

	return r0, args.Error(1)
}

func (m *MockProfileUsecase) ToggleFollow(ctx context.Context, followerID uuid.UUID, followeeID uuid.UUID) (*usecase.FollowOutput, error) {
	args := m.Called(ctx, followerID, followeeID)
	r0, _ := args.Get(0).(*usecase.FollowOutput)

	return r0, args.Error(1)
}

func (m *MockProfileUsecase) ProfileQR(ctx context.Context, accountID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, accountID)
	r0, _ := args.Get(0).([]byte)

	return r0, args.Error(1)
}

func (m *MockProfileUsecase) ResolveProfileQR(ctx context.Context, viewerID uuid.UUID, qrData string) (*entity.Profile, error) {
	args := m.Called(ctx, viewerID, qrData)
	r0, _ := args.Get(0).(*entity.Profile)

	return r0, args.Error(1)
}

// MockPostUsecase is a mock of usecase.PostUsecase.
type MockPostUsecase struct {
	mock.Mock
}

// NewMockPostUsecase creates a mock whose expectations are asserted at test cleanup.
func NewMockPostUsecase(t *testing.T) *MockPostUsecase {
	m := &MockPostUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPostUsecase) CreatePost(ctx context.Context, input usecase.CreatePostInput) (*entity.Post, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) ListPosts(ctx context.Context, input usecase.ListPostsInput) ([]*entity.Post, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).([]*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) ListUserPosts(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error) {
	args := m.Called(ctx, authorID)
	r0, _ := args.Get(0).([]*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) ListSavedPosts(ctx context.Context, accountID uuid.UUID) ([]*entity.Post, error) {
	args := m.Called(ctx, accountID)
	r0, _ := args.Get(0).([]*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) DeletePost(ctx context.Context, requesterID uuid.UUID, postID uuid.UUID) error {
	args := m.Called(ctx, requesterID, postID)

	return args.Error(0)
}

func (m *MockPostUsecase) ToggleLike(ctx context.Context, accountID uuid.UUID, postID uuid.UUID) (*usecase.ToggleOutput, error) {
	args := m.Called(ctx, accountID, postID)
	r0, _ := args.Get(0).(*usecase.ToggleOutput)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) ToggleSave(ctx context.Context, accountID uuid.UUID, postID uuid.UUID) (*usecase.ToggleOutput, error) {
	args := m.Called(ctx, accountID, postID)
	r0, _ := args.Get(0).(*usecase.ToggleOutput)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) AddComment(ctx context.Context, input usecase.AddCommentInput) (*entity.Comment, error) {
	args := m.Called(ctx, input)
	r0, _ := args.Get(0).(*entity.Comment)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) ListComments(ctx context.Context, postID uuid.UUID) ([]*entity.Comment, error) {
	args := m.Called(ctx, postID)
	r0, _ := args.Get(0).([]*entity.Comment)

	return r0, args.Error(1)
}

func (m *MockPostUsecase) OpenMedia(ctx context.Context, key string) (*service.MediaObject, error) {
	args := m.Called(ctx, key)
	r0, _ := args.Get(0).(*service.MediaObject)

	return r0, args.Error(1)
}
