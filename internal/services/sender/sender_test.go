package services

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/room-management/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-management/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const leaseBody = `{"agreement_code":"HD01","room_code":"101","room_name":"Room 101","tenants":"An, Binh","end_month":"03/2024","days_left":11}`

func TestSenderService_SendLeaseExpiring(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		landlord      string
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
		dropped       bool
	}{
		{
			name:     "success - mail the landlord",
			body:     []byte(leaseBody),
			landlord: "owner@example.com",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				t.On("GetSMTPUser").Return("noreply@example.com")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "owner@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.MatchedBy(func(p []byte) bool {
					msg := string(p)
					return strings.Contains(msg, "Subject: Agreement HD01 ends in 11 days") &&
						strings.Contains(msg, "Tenants: An, Binh.") &&
						strings.Contains(msg, "To: owner@example.com")
				})).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
			},
		},
		{
			name:          "invalid JSON",
			body:          []byte(`invalid json`),
			landlord:      "owner@example.com",
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
			dropped:       true,
		},
		{
			name:          "no landlord configured",
			body:          []byte(leaseBody),
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  ErrNoRecipient.Error(),
			dropped:       true,
		},
		{
			name:     "SMTP connection error",
			body:     []byte(leaseBody),
			landlord: "owner@example.com",
			setupMocks: func(t *MockTransport) {
				t.On("GetSMTPUser").Return("noreply@example.com")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
		{
			name:     "recipient rejected",
			body:     []byte(leaseBody),
			landlord: "owner@example.com",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)
				t.On("GetSMTPUser").Return("noreply@example.com")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "owner@example.com").Return(errors.New("550 mailbox unavailable")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: true,
			errorMessage:  "550 mailbox unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(transport, tt.landlord, newNoopLogger())

			tt.setupMocks(transport)

			err := service.SendLeaseExpiring(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
				assert.Equal(t, tt.dropped, errors.Is(err, rabbitmq.ErrDrop))
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}
