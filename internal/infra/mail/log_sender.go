package mail

import (
	"context"
	"log/slog"

	"gramosi/internal/domain/service"
)

// logSender writes messages to the log instead of sending them. Development only.
type logSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *slog.Logger) service.NotificationSender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "[MailLog] Message not sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}
