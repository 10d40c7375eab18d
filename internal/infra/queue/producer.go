package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

type LeadPitchedPayload struct {
	LeadID       string    `json:"lead_id"`
	OwnerID      string    `json:"owner_id"`
	Website      string    `json:"website"`
	PitchResult  string    `json:"pitch_result"`
	PitchMessage string    `json:"pitch_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch channelPublisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadPitched(ctx context.Context, payload LeadPitchedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "queue: encode lead.pitched")
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.OccurredAt,
			Type:         "lead.pitched",
		},
	)
	if err != nil {
		return eris.Wrap(err, "queue: publish lead.pitched")
	}
	return nil
}
