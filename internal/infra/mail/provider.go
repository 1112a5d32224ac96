package mail

import (
	"log/slog"

	"gramosi/config"
	"gramosi/internal/domain/constants"
	"gramosi/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SenderParams holds dependencies for NotificationSender, injected by Fx
type SenderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationSender selects the mail transport from configuration.
func NewNotificationSender(params SenderParams) (service.NotificationSender, error) {
	cfg := params.Config.Mail
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.MailProviderLog {
		if params.Config.IsProduction() {
			return nil, errors.New("mail provider must be smtp in production")
		}
		params.Logger.Info("Mail not configured, codes will be logged")

		return NewLogSender(params.Logger), nil
	}

	switch cfg.Provider {
	case constants.MailProviderSMTP:
		params.Logger.Info("Using SMTP mail sender", slog.String("host", cfg.Host))

		return NewSMTPSender(cfg, params.Logger)
	default:
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}

// Module provides the mail FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewNotificationSender,
		NewTemplateRenderer,
	),
)
