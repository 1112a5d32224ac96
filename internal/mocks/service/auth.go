package service

import (
	"context"
	"testing"
	"time"

	"gramosi/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock whose expectations are asserted at test cleanup.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) Issue(accountID uuid.UUID) (*service.SessionToken, error) {
	args := m.Called(accountID)
	r0, _ := args.Get(0).(*service.SessionToken)

	return r0, args.Error(1)
}

func (m *MockTokenService) Validate(token string) (*service.SessionClaims, error) {
	args := m.Called(token)
	r0, _ := args.Get(0).(*service.SessionClaims)

	return r0, args.Error(1)
}

func (m *MockTokenService) TTL() time.Duration {
	args := m.Called()
	r0, _ := args.Get(0).(time.Duration)

	return r0
}

// MockNotificationSender is a mock of service.NotificationSender.
type MockNotificationSender struct {
	mock.Mock
}

// NewMockNotificationSender creates a mock whose expectations are asserted at test cleanup.
func NewMockNotificationSender(t *testing.T) *MockNotificationSender {
	m := &MockNotificationSender{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationSender) Send(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)

	return args.Error(0)
}

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a mock whose expectations are asserted at test cleanup.
func NewMockQRCodeService(t *testing.T) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GenerateProfileQR(userName string) ([]byte, error) {
	args := m.Called(userName)
	r0, _ := args.Get(0).([]byte)

	return r0, args.Error(1)
}

func (m *MockQRCodeService) ParseProfileQR(qrData string) (string, error) {
	args := m.Called(qrData)

	return args.String(0), args.Error(1)
}
