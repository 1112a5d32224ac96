// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"context"
	"testing"

	"gramosi/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockMediaStorage is a mock of service.MediaStorage.
type MockMediaStorage struct {
	mock.Mock
}

// NewMockMediaStorage creates a mock whose expectations are asserted at test cleanup.
func NewMockMediaStorage(t *testing.T) *MockMediaStorage {
	m := &MockMediaStorage{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMediaStorage) Put(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)

	return args.String(0), args.Error(1)
}

func (m *MockMediaStorage) Open(ctx context.Context, key string) (*service.MediaObject, error) {
	args := m.Called(ctx, key)
	r0, _ := args.Get(0).(*service.MediaObject)

	return r0, args.Error(1)
}

func (m *MockMediaStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

// MockMediaProcessor is a mock of service.MediaProcessor.
type MockMediaProcessor struct {
	mock.Mock
}

// NewMockMediaProcessor creates a mock whose expectations are asserted at test cleanup.
func NewMockMediaProcessor(t *testing.T) *MockMediaProcessor {
	m := &MockMediaProcessor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMediaProcessor) Prepare(data []byte, allowVideo bool) (*service.PreparedMedia, error) {
	args := m.Called(data, allowVideo)
	r0, _ := args.Get(0).(*service.PreparedMedia)

	return r0, args.Error(1)
}

// MockEventPublisher is a mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a mock whose expectations are asserted at test cleanup.
func NewMockEventPublisher(t *testing.T) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}
