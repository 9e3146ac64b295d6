// Package services turns queued lease notifications into e-mails for the
// landlord.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/room-management/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/room-management/internal/lib/sl"
	"github.com/magabrotheeeer/room-management/internal/lib/smtp"
	"github.com/magabrotheeeer/room-management/internal/metrics"
	"github.com/magabrotheeeer/room-management/internal/models"
)

// ErrNoRecipient is returned when no landlord address is configured.
var ErrNoRecipient = errors.New("landlord address is not configured")

type SenderService struct {
	transport smtp.TransportInterface
	landlord  string
	log       *slog.Logger
}

// NewSenderService creates a SenderService mailing landlord.
func NewSenderService(transport smtp.TransportInterface, landlord string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		landlord:  landlord,
		log:       log,
	}
}

// SendLeaseExpiring handles one LeaseExpiring message.
func (s *SenderService) SendLeaseExpiring(body []byte) error {
	var message models.LeaseExpiring
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", rabbitmq.ErrDrop, err)
	}
	if s.landlord == "" {
		return fmt.Errorf("%w: %w", ErrNoRecipient, rabbitmq.ErrDrop)
	}

	tenants := message.Tenants
	if tenants == "" {
		tenants = "no tenants on record"
	}
	subject := fmt.Sprintf("Agreement %s ends in %d days", message.AgreementCode, message.DaysLeft)
	bodyText := fmt.Sprintf("Hello,\n\nAgreement %s for %s (%s) ends with month %s, %d days from today.\nTenants: %s.\n\nPlease renew it or plan the check-out.",
		message.AgreementCode, message.RoomName, message.RoomCode, message.EndMonth, message.DaysLeft, tenants)

	err := s.sendEmail([]string{s.landlord}, subject, bodyText)
	if err != nil {
		metrics.LeaseNotifications.WithLabelValues("send", "error").Inc()
		return err
	}
	metrics.LeaseNotifications.WithLabelValues("send", "ok").Inc()
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
