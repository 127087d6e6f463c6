// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	q "github.com/fcrit/campus-events/internal/queue"
)

// PublishEventModerated publishes an EventModeratedEvent to the
// "event.moderated" queue. Moderation has already been committed to the
// database when this runs, so any broker error is logged and returned for
// the caller to ignore. Messages are marked persistent.
func PublishEventModerated(ctx context.Context, event q.EventModeratedEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts. Declaration is idempotent.
	if _, err := ch.QueueDeclare(
		"event.moderated", // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		"event.moderated", // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}

	return nil
}
