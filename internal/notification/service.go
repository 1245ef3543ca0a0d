// Package notification turns order and enquiry events into emails.
package notification

import (
	"context"
	"strings"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/notification/email"
	generalDomain "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	outboxUtils "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Deduplicator runs action at most once per event id.
type Deduplicator func(ctx context.Context, eventID int64, action func(ctx context.Context) error) error

// PostgresDeduplicator claims event ids in the processed_events table.
func PostgresDeduplicator(pool *pgxpool.Pool, logger *zap.Logger) Deduplicator {
	return func(ctx context.Context, eventID int64, action func(ctx context.Context) error) error {
		return outboxUtils.ProcessWithDeduplication(ctx, pool, logger, eventID, action)
	}
}

type Service struct {
	sender     email.Sender
	dedupe     Deduplicator
	adminEmail string
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewService(sender email.Sender, dedupe Deduplicator, adminEmail string, logger *zap.Logger) *Service {
	return &Service{
		sender:     sender,
		dedupe:     dedupe,
		adminEmail: adminEmail,
		logger:     logger,
		tracer:     otel.Tracer("notification/service"),
	}
}

func (s *Service) HandleOrderPlaced(ctx context.Context, eventID int64, event generalDomain.OrderPlacedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleOrderPlaced")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", eventID),
		attribute.Int64("order_id", event.OrderID),
	)

	var rows strings.Builder
	for _, item := range event.Items {
		product := item.ProductName
		if item.VariantLabel != "" {
			product += " (" + item.VariantLabel + ")"
		}
		rows.WriteString(email.Render(email.OrderItemTemplate, map[string]any{
			"product":  product,
			"quantity": item.Quantity,
			"price":    item.TotalPrice,
		}))
	}

	body := email.Render(email.OrderPlacedTemplate, map[string]any{
		"name":     event.CustomerName,
		"order_id": event.OrderID,
		"items":    email.Raw(rows.String()),
		"total":    event.Total,
	})

	return s.dedupe(ctx, eventID, func(ctx context.Context) error {
		return s.sender.Send(ctx, event.CustomerEmail, "Order confirmation", body)
	})
}

func (s *Service) HandleOrderStatusChanged(ctx context.Context, eventID int64, event generalDomain.OrderStatusChangedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleOrderStatusChanged")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", eventID),
		attribute.Int64("order_id", event.OrderID),
		attribute.String("status", event.To),
	)

	body := email.Render(email.OrderStatusTemplate, map[string]any{
		"order_id": event.OrderID,
		"status":   event.To,
		"from":     event.From,
	})

	return s.dedupe(ctx, eventID, func(ctx context.Context) error {
		return s.sender.Send(ctx, event.CustomerEmail, "Your order has been updated", body)
	})
}

// HandleEnquiryReceived forwards a contact enquiry to the shop's admin inbox.
func (s *Service) HandleEnquiryReceived(ctx context.Context, eventID int64, event generalDomain.EnquiryReceivedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleEnquiryReceived")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", eventID),
		attribute.Int64("enquiry_id", event.EnquiryID),
	)

	if s.adminEmail == "" {
		mylogger.Warn(ctx, s.logger, "Admin email not configured, dropping enquiry notification",
			zap.Int64("enquiry_id", event.EnquiryID),
		)
		return nil
	}

	subject := event.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	body := email.Render(email.EnquiryTemplate, map[string]any{
		"name":    event.Name,
		"email":   event.Email,
		"subject": subject,
		"message": event.Message,
	})

	return s.dedupe(ctx, eventID, func(ctx context.Context) error {
		return s.sender.Send(ctx, s.adminEmail, "New enquiry: "+subject, body)
	})
}
