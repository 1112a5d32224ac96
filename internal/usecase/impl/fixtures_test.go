package impl

import (
	"testing"

	"gramosi/internal/domain/service"
	mockRepo "gramosi/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

// repoMocks wires one mock per repository behind a transaction manager that
// runs every transaction function against them.
type repoMocks struct {
	txManager *mockRepo.MockTransactionManager
	accounts  *mockRepo.MockAccountRepository
	follows   *mockRepo.MockFollowRepository
	posts     *mockRepo.MockPostRepository
	comments  *mockRepo.MockCommentRepository
}

func newRepoMocks(t *testing.T) repoMocks {
	t.Helper()

	m := repoMocks{
		txManager: mockRepo.NewMockTransactionManager(t),
		accounts:  mockRepo.NewMockAccountRepository(t),
		follows:   mockRepo.NewMockFollowRepository(t),
		posts:     mockRepo.NewMockPostRepository(t),
		comments:  mockRepo.NewMockCommentRepository(t),
	}

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.On("AccountRepo").Return(m.accounts).Maybe()
	factory.On("FollowRepo").Return(m.follows).Maybe()
	factory.On("PostRepo").Return(m.posts).Maybe()
	factory.On("CommentRepo").Return(m.comments).Maybe()
	m.txManager.RunWith(factory).Maybe()

	return m
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(event *service.DomainEvent) bool {
		return event.Type == eventType
	})
}

func orphanedKey(key string) any {
	return mock.MatchedBy(func(event *service.DomainEvent) bool {
		return event.Type == service.EventMediaOrphaned && event.Data[service.EventDataMediaKey] == key
	})
}
