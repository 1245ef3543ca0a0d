package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
}

type smtpSender struct {
	cfg    Config
	logger *zap.Logger
	tracer trace.Tracer
}

func NewSMTPSender(cfg Config, logger *zap.Logger) Sender {
	return &smtpSender{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("notification/email"),
	}
}

// message renders an RFC 5322 message with an HTML body.
func message(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	ctx, span := s.tracer.Start(ctx, "smtp.Send")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.String("subject", subject),
	)

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)

	mylogger.Info(ctx, s.logger, "Sending email", zap.String("to", to), zap.String("subject", subject))

	if err := smtp.SendMail(addr, auth, s.cfg.User, []string{to}, message(s.cfg.User, to, subject, htmlBody)); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error sending email", zap.String("to", to), zap.Error(err))

		return fmt.Errorf("failed to send mail: %w", err)
	}

	mylogger.Info(ctx, s.logger, "Email sent successfully", zap.String("to", to))
	return nil
}
