package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcess_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	group := NewConsumerGroup(nil, "test", nil, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		if calls < 3 {
			return errors.New("smtp unavailable")
		}
		return nil
	}, zap.NewNop(), WithRetry(3, time.Millisecond))

	require.NoError(t, group.process(context.Background(), &sarama.ConsumerMessage{Topic: "order_events"}))
	require.Equal(t, 3, calls)
}

func TestProcess_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	group := NewConsumerGroup(nil, "test", nil, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		return boom
	}, zap.NewNop(), WithRetry(2, time.Millisecond))

	err := group.process(context.Background(), &sarama.ConsumerMessage{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, calls)
}

func TestProcess_StopsWaitingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	group := NewConsumerGroup(nil, "test", nil, func(context.Context, *sarama.ConsumerMessage) error {
		cancel()
		return errors.New("fail")
	}, zap.NewNop(), WithRetry(5, time.Hour))

	err := group.process(ctx, &sarama.ConsumerMessage{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcess_PropagatesTraceHeaders(t *testing.T) {
	var got context.Context
	group := NewConsumerGroup(nil, "test", nil, func(ctx context.Context, _ *sarama.ConsumerMessage) error {
		got = ctx
		return nil
	}, zap.NewNop())

	msg := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{{Key: []byte("traceparent"), Value: []byte("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")}},
	}
	require.NoError(t, group.process(context.Background(), msg))
	require.NotNil(t, got)
}
