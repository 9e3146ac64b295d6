// Package smtp sends plain-text mail over an authenticated STARTTLS session.
package smtp

import "io"

// Client is the part of *smtp.Client used to deliver one message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface opens SMTP sessions.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
