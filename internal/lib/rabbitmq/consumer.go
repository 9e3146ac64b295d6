package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/room-management/internal/lib/sl"
)

const maxInFlight = 10

// ErrDrop marks handler errors that a redelivery cannot fix. Such messages
// are rejected without requeue.
var ErrDrop = errors.New("message dropped")

// Acknowledger is the part of amqp.Delivery the consumer needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// ConsumerMessage starts consuming queueName. Each delivery is handled in its
// own goroutine, at most maxInFlight at a time. A handler error requeues the
// message unless it wraps ErrDrop. Consumption stops when ctx is done or the channel closes.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go dispatch(ctx, log.With(slog.String("queue", queueName)), deliveries, handler)
	return nil
}

func dispatch(ctx context.Context, log *slog.Logger, deliveries <-chan amqp.Delivery, handler func([]byte) error) {
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				settle(log, d, d.Body, handler)
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func settle(log *slog.Logger, ack Acknowledger, body []byte, handler func([]byte) error) {
	if err := handler(body); err != nil {
		requeue := !errors.Is(err, ErrDrop)
		log.Error("handler failed", sl.Err(err), slog.Bool("requeue", requeue))
		if nackErr := ack.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
