package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// Exchange is the direct exchange every notification goes through.
	Exchange = "notifications"

	LeaseExpiringQueue      = "lease.expiring"
	LeaseExpiringRoutingKey = "lease.expiring"

	prefetch = 10
)

// QueueConfig binds one durable queue to Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// LeaseQueues lists the queues of the lease notification flow.
func LeaseQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: LeaseExpiringQueue, RoutingKey: LeaseExpiringRoutingKey},
	}
}

// SetupChannel opens a channel, declares Exchange and binds queues to it.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: qos: %w", op, err)
	}

	if err = ch.ExchangeDeclare(Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err = ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: declare queue %s: %w", op, q.QueueName, err)
		}
		if err = ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: bind queue %s to %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
