package contracts

import "context"

// EventPublisher sends a payload to a topic. Messages sharing a partition key
// are delivered in order when the transport supports it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte, partitionKey string) error
}
