package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_KeyedByPartitionKey(t *testing.T) {
	msg := buildMessage("product", []byte(`{"event_type":"PRODUCT_CREATE"}`), "p1")

	assert.Equal(t, "product", msg.Topic)
	assert.Equal(t, []byte("p1"), msg.Key)
	assert.JSONEq(t, `{"event_type":"PRODUCT_CREATE"}`, string(msg.Value))

	unkeyed := buildMessage("product", nil, "")
	assert.Nil(t, unkeyed.Key)
}

func TestNewKafka_RequiresBrokers(t *testing.T) {
	_, err := NewKafka(KafkaConfig{})
	require.Error(t, err)

	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}, ClientID: "catalog"})
	require.NoError(t, err)
	require.NoError(t, k.Close())
}

func TestLocal_DeliversToSubscribers(t *testing.T) {
	l := NewLocal()

	var (
		gotPayload []byte
		gotKey     string
	)
	require.NoError(t, l.Subscribe("topping", func(payload []byte, key string) {
		gotPayload = payload
		gotKey = key
	}))

	require.NoError(t, l.Publish(context.Background(), "topping", []byte("x"), "tp1"))
	assert.Equal(t, []byte("x"), gotPayload)
	assert.Equal(t, "tp1", gotKey)
}

func TestLocal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewLocal().Publish(ctx, "product", nil, "p1"), context.Canceled)
}
