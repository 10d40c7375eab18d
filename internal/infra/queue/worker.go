package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LeadEventHandler processes one decoded lead.pitched event. A returned
// error dead-letters the message.
type LeadEventHandler func(ctx context.Context, payload LeadPitchedPayload) error

type channelConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel channelConsumer
	Handle  LeadEventHandler
}

func NewWorker(ch *amqp.Channel, handle LeadEventHandler) *Worker {
	return &Worker{Channel: ch, Handle: handle}
}

// Run consumes queueName until ctx is done or the delivery channel closes.
func (w *Worker) Run(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return eris.Wrapf(err, "queue: consume %s", queueName)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadPitchedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		zap.L().Error("undecodable lead event", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := w.Handle(ctx, payload); err != nil {
		zap.L().Error("lead event handler failed", zap.String("lead_id", payload.LeadID), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
