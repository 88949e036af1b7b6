package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Publisher sends domain events to a durable topic exchange. The routing key
// is the event name, e.g. "payment.settled".
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

type Envelope struct {
	ID         string      `json:"id"`
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, event string, data interface{}) error {
	msg := Envelope{
		ID:         uuid.NewString(),
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event":    event,
		"exchange": p.exchange,
		"event_id": msg.ID,
	}).Debug("publishing event")

	err = p.channel.Publish(
		p.exchange,
		event,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
