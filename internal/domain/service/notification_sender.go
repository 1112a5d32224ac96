package service

import "context"

// Template names known to the TemplateRenderer.
const (
	TemplateVerificationOTP = "otp"
	TemplateResetOTP        = "reset"
)

// NotificationSender delivers a rendered message to a single address.
type NotificationSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TemplateRenderer renders a named template with a set of substitutions.
type TemplateRenderer interface {
	Render(name string, vars map[string]string) (string, error)
}
