package notification

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	generalDomain "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/kafka"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

const groupID = "notification-service-group"

type Handler interface {
	HandleOrderPlaced(ctx context.Context, eventID int64, event generalDomain.OrderPlacedEvent) error
	HandleOrderStatusChanged(ctx context.Context, eventID int64, event generalDomain.OrderStatusChangedEvent) error
	HandleEnquiryReceived(ctx context.Context, eventID int64, event generalDomain.EnquiryReceivedEvent) error
}

type Consumer struct {
	handler Handler
	logger  *zap.Logger
}

func NewConsumer(handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{handler: handler, logger: logger}
}

// Start blocks consuming order and enquiry events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, brokers []string) error {
	group := kafka.NewConsumerGroup(
		brokers,
		groupID,
		[]string{generalDomain.TopicOrderEvents, generalDomain.TopicEnquiryEvents},
		c.processMessage,
		c.logger,
	)

	return group.Run(ctx)
}

// decode unmarshals an envelope payload. Malformed payloads are logged and
// skipped since redelivery cannot fix them.
func decode[T any](ctx context.Context, logger *zap.Logger, raw json.RawMessage, event string) (T, bool) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		mylogger.Error(ctx, logger, "Error parsing event payload", zap.String("event", event), zap.Error(err))
		return payload, false
	}
	return payload, true
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	mylogger.Info(ctx, c.logger, "Processing message",
		zap.String("topic", msg.Topic),
		zap.Int64("offset", msg.Offset),
	)

	var envelope generalDomain.EventEnvelope[json.RawMessage]
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		mylogger.Error(ctx, c.logger, "Error unmarshalling envelope", zap.Error(err))
		return nil
	}

	if envelope.EventID == 0 {
		mylogger.Warn(ctx, c.logger, "Event without id ignored", zap.String("event", envelope.Event))
		return nil
	}

	switch envelope.Event {
	case generalDomain.EventOrderPlaced:
		event, ok := decode[generalDomain.OrderPlacedEvent](ctx, c.logger, envelope.Payload, envelope.Event)
		if !ok {
			return nil
		}
		return c.handler.HandleOrderPlaced(ctx, envelope.EventID, event)

	case generalDomain.EventOrderStatusChanged:
		event, ok := decode[generalDomain.OrderStatusChangedEvent](ctx, c.logger, envelope.Payload, envelope.Event)
		if !ok {
			return nil
		}
		return c.handler.HandleOrderStatusChanged(ctx, envelope.EventID, event)

	case generalDomain.EventEnquiryReceived:
		event, ok := decode[generalDomain.EnquiryReceivedEvent](ctx, c.logger, envelope.Payload, envelope.Event)
		if !ok {
			return nil
		}
		return c.handler.HandleEnquiryReceived(ctx, envelope.EventID, event)

	default:
		mylogger.Debug(ctx, c.logger, "Ignored event type", zap.String("event", envelope.Event))
	}

	return nil
}
