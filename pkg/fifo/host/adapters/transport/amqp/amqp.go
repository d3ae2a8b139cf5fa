// Package amqp implements the delivery slice of host.Host against a
// real AMQP 0-9-1 broker, publishing each SendMessage call to a
// per-customer routing key the way pkg/messaging/adapters/kafka
// publishes a messaging.Message to a topic/partition.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quorumq/quorumq/pkg/fifo"
)

// Adapter publishes deliveries to a single exchange, one routing key
// per customer identity.
type Adapter[C comparable] struct {
	channel  *amqp.Channel
	exchange string
}

// New returns an Adapter that publishes onto exchange over channel.
// The caller owns the channel's lifetime (Close it, not the Adapter).
func New[C comparable](channel *amqp.Channel, exchange string) *Adapter[C] {
	return &Adapter[C]{channel: channel, exchange: exchange}
}

type envelope struct {
	MsgID   fifo.MessageID `json:"msg_id"`
	Message any            `json:"message"`
}

// SendMessage publishes message to the customer's routing key,
// tagging it with the delivery's MsgID so the consumer can settle or
// return it by that ID.
func (a *Adapter[C]) SendMessage(ctx context.Context, customerID C, msgID fifo.MessageID, message any) error {
	body, err := json.Marshal(envelope{MsgID: msgID, Message: message})
	if err != nil {
		return fmt.Errorf("amqp: marshal delivery: %w", err)
	}

	routingKey := fmt.Sprintf("%v", customerID)
	return a.channel.PublishWithContext(ctx, a.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
