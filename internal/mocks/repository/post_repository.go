package repository

import (
	"context"
	"testing"

	"gramosi/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of repository.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

// NewMockPostRepository creates a mock whose expectations are asserted at test cleanup.
func NewMockPostRepository(t *testing.T) *MockPostRepository {
	m := &MockPostRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)

	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit int, offset int) ([]*entity.Post, error) {
	args := m.Called(ctx, limit, offset)
	r0, _ := args.Get(0).([]*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error) {
	args := m.Called(ctx, authorID)
	r0, _ := args.Get(0).([]*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostRepository) ListSavedBy(ctx context.Context, accountID uuid.UUID) ([]*entity.Post, error) {
	args := m.Called(ctx, accountID)
	r0, _ := args.Get(0).([]*entity.Post)

	return r0, args.Error(1)
}

func (m *MockPostRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, authorID)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockPostRepository) AddLike(ctx context.Context, postID uuid.UUID, accountID uuid.UUID) error {
	args := m.Called(ctx, postID, accountID)

	return args.Error(0)
}

func (m *MockPostRepository) RemoveLike(ctx context.Context, postID uuid.UUID, accountID uuid.UUID) error {
	args := m.Called(ctx, postID, accountID)

	return args.Error(0)
}

func (m *MockPostRepository) HasLiked(ctx context.Context, postID uuid.UUID, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, accountID)

	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	args := m.Called(ctx, postID)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, postID uuid.UUID, accountID uuid.UUID) error {
	args := m.Called(ctx, postID, accountID)

	return args.Error(0)
}

func (m *MockPostRepository) Unsave(ctx context.Context, postID uuid.UUID, accountID uuid.UUID) error {
	args := m.Called(ctx, postID, accountID)

	return args.Error(0)
}

func (m *MockPostRepository) IsSaved(ctx context.Context, postID uuid.UUID, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, accountID)

	return args.Bool(0), args.Error(1)
}

// MockCommentRepository is a mock of repository.CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

// NewMockCommentRepository creates a mock whose expectations are asserted at test cleanup.
func NewMockCommentRepository(t *testing.T) *MockCommentRepository {
	m := &MockCommentRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)

	return args.Error(0)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*entity.Comment, error) {
	args := m.Called(ctx, postID)
	r0, _ := args.Get(0).([]*entity.Comment)

	return r0, args.Error(1)
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	args := m.Called(ctx, postID)

	return args.Error(0)
}
