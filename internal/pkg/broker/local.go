package broker

import (
	"context"

	"github.com/asaskevich/EventBus"
)

// Local delivers events to in-process subscribers. It stands in for a real
// broker in local runs and tests.
type Local struct {
	bus EventBus.Bus
}

func NewLocal() *Local {
	return &Local{bus: EventBus.New()}
}

func (l *Local) Publish(ctx context.Context, topic string, payload []byte, partitionKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.bus.Publish(topic, payload, partitionKey)
	return nil
}

// Subscribe registers fn for every event published on topic.
func (l *Local) Subscribe(topic string, fn func(payload []byte, partitionKey string)) error {
	return l.bus.Subscribe(topic, fn)
}

func (l *Local) Close() error {
	return nil
}
