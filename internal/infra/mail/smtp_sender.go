package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"gramosi/config"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"

	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxRetries  = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 2 * time.Second
	defaultSendTimeout = 10 * time.Second
	smtpPermanentFloor = 500
)

type sendMailFunc func(ctx context.Context, to string, msg []byte) error

type smtpSender struct {
	addr        string
	host        string
	auth        smtp.Auth
	from        string
	envelope    string
	maxRetries  uint64
	retryBase   time.Duration
	sendTimeout time.Duration
	sendMail    sendMailFunc
	logger      *slog.Logger
}

// NewSMTPSender creates a sender that retries transient SMTP failures with
// capped exponential backoff. Every attempt is bounded by the send timeout
// and by the caller's context.
func NewSMTPSender(cfg *config.MailConfig, logger *slog.Logger) (service.NotificationSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required for smtp provider")
	}
	if cfg.From == "" {
		return nil, errors.New("mail from address is required for smtp provider")
	}

	from, err := netmail.ParseAddress(cfg.From)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mail from address")
	}

	var auth smtp.Auth
	if cfg.UserName != "" {
		auth = smtp.PlainAuth("", cfg.UserName, cfg.Password, cfg.Host)
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}

	s := &smtpSender{
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		host:        cfg.Host,
		auth:        auth,
		from:        cfg.From,
		envelope:    from.Address,
		maxRetries:  maxRetries,
		retryBase:   defaultRetryBase,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
	s.sendMail = s.deliver

	return s, nil
}

// Send delivers an HTML message to a single recipient.
func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	attempt := 0

	backoff := retry.WithCappedDuration(defaultRetryCap, retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, retry.WithMaxRetries(s.maxRetries, backoff), func(ctx context.Context) error {
		attempt++
		err := s.sendMail(ctx, to, msg)
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
		if isPermanent(err) {
			return err
		}

		s.logger.Warn("[SMTP] Send failed, retrying",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		return retry.RetryableError(err)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to send mail after %d attempt(s)", attempt)
	}

	return nil
}

// deliver runs one SMTP exchange. The connection deadline is the earlier of
// the send timeout and the context deadline, and cancelling ctx aborts any
// pending read or write.
func (s *smtpSender) deliver(ctx context.Context, to string, msg []byte) error {
	dialer := net.Dialer{Timeout: s.sendTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return errors.Wrap(err, "failed to dial smtp server")
	}
	defer conn.Close()

	deadline := time.Now().Add(s.sendTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return errors.Wrap(err, "failed to set smtp deadline")
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return errors.Wrap(err, "failed to read smtp greeting")
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return errors.Wrap(err, "failed to start tls")
		}
	}
	if s.auth != nil {
		if err := client.Auth(s.auth); err != nil {
			return errors.Wrap(err, "smtp authentication failed")
		}
	}

	if err := client.Mail(s.envelope); err != nil {
		return errors.Wrap(err, "smtp MAIL FROM rejected")
	}
	if err := client.Rcpt(to); err != nil {
		return errors.Wrap(err, "smtp RCPT TO rejected")
	}

	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "smtp DATA rejected")
	}
	if _, err := w.Write(msg); err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "smtp server rejected message")
	}

	return client.Quit()
}

// isPermanent reports whether the server rejected the message outright.
func isPermanent(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code >= smtpPermanentFloor
	}

	return false
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return []byte(b.String())
}
