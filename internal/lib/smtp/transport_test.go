package smtp

import (
	"bufio"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/room-management/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// plainServer greets and advertises no extensions, then hangs up.
func plainServer(t *testing.T) (string, int) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 test ESMTP\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch line[:4] {
			case "EHLO":
				_, _ = conn.Write([]byte("250 test\r\n"))
			case "QUIT":
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			default:
				_, _ = conn.Write([]byte("250 ok\r\n"))
			}
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return host, p
}

func TestConnect_RequiresStartTLS(t *testing.T) {
	host, port := plainServer(t)
	tr := NewTransport(config.SMTP{Host: host, Port: port}, newNoopLogger())

	client, err := tr.Connect()
	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}

func TestConnect_DialFailure(t *testing.T) {
	tr := NewTransport(config.SMTP{Host: "127.0.0.1", Port: 1}, newNoopLogger())

	_, err := tr.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}

func TestGetSMTPUser(t *testing.T) {
	assert.Equal(t, "rooms@example.com",
		NewTransport(config.SMTP{User: "mailer", From: "rooms@example.com"}, newNoopLogger()).GetSMTPUser())
	assert.Equal(t, "mailer",
		NewTransport(config.SMTP{User: "mailer"}, newNoopLogger()).GetSMTPUser())
}
