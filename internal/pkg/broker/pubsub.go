package broker

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"
)

// PubSub publishes to Google Cloud Pub/Sub topics. The partition key is used
// as the ordering key.
type PubSub struct {
	client *pubsub.Client

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

func NewPubSub(ctx context.Context, projectID string) (*PubSub, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	return &PubSub{client: client, topics: map[string]*pubsub.Topic{}}, nil
}

func (p *PubSub) Publish(ctx context.Context, topic string, payload []byte, partitionKey string) error {
	t := p.topic(topic)
	res := t.Publish(ctx, &pubsub.Message{Data: payload, OrderingKey: partitionKey})
	if _, err := res.Get(ctx); err != nil {
		// a failed ordered publish pauses its key until resumed
		if partitionKey != "" {
			t.ResumePublish(partitionKey)
		}
		return err
	}
	return nil
}

func (p *PubSub) topic(name string) *pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.topics[name]; ok {
		return t
	}
	t := p.client.Topic(name)
	t.EnableMessageOrdering = true
	p.topics[name] = t
	return t
}

// Close flushes pending messages and releases the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	for _, t := range p.topics {
		t.Stop()
	}
	p.mu.Unlock()
	return p.client.Close()
}
