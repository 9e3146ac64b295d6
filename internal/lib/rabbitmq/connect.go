// Package rabbitmq wraps the AMQP plumbing between the lease scheduler and
// the lease sender: connection with retries, topology setup, publishing and
// a consumer with bounded concurrency.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect dials url up to retries times, sleeping delay between attempts.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	if retries < 1 {
		retries = 1
	}

	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		if attempt < retries {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("%s: after %d attempts: %w", op, retries, err)
}
