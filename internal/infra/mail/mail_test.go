package mail

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"gramosi/config"
	"gramosi/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplateRenderer_Render(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	vars := map[string]string{"userName": "alice", "otp": "123456", "expiresIn": "24 hours"}

	for _, name := range []string{service.TemplateVerificationOTP, service.TemplateResetOTP} {
		t.Run(name, func(t *testing.T) {
			body, err := renderer.Render(name, vars)
			require.NoError(t, err)
			assert.Contains(t, body, "alice")
			assert.Contains(t, body, "123456")
			assert.Contains(t, body, "24 hours")
		})
	}
}

func TestTemplateRenderer_EscapesValues(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	body, err := renderer.Render(service.TemplateVerificationOTP, map[string]string{
		"userName":  "<script>",
		"otp":       "1",
		"expiresIn": "1m",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestTemplateRenderer_Errors(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, err = renderer.Render("welcome", nil)
	assert.Error(t, err)

	_, err = renderer.Render(service.TemplateResetOTP, map[string]string{"userName": "alice"})
	assert.Error(t, err, "missing variables must fail rendering")
}

func newTestSMTPSender(t *testing.T, send sendMailFunc) *smtpSender {
	t.Helper()

	s, err := NewSMTPSender(&config.MailConfig{
		Host:       "smtp.example.com",
		From:       "Gramosi <no-reply@gramosi.app>",
		MaxRetries: 2,
	}, discardLogger())
	require.NoError(t, err)

	sender := s.(*smtpSender)
	sender.retryBase = time.Millisecond
	sender.sendMail = send

	return sender
}

// fakeSMTPServer speaks just enough SMTP for one message per connection.
type fakeSMTPServer struct {
	host      string
	port      int
	rcptReply string

	mu       sync.Mutex
	mailFrom string
	rcptTo   string
	data     string
}

func startFakeSMTPServer(t *testing.T, rcptReply string) *fakeSMTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	addr := ln.Addr().(*net.TCPAddr)
	srv := &fakeSMTPServer{host: addr.IP.String(), port: addr.Port, rcptReply: rcptReply}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.serve(conn)
		}
	}()

	return srv
}

func (srv *fakeSMTPServer) serve(conn net.Conn) {
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake ESMTP ready")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}

		verb, _, _ := strings.Cut(line, " ")
		switch strings.ToUpper(verb) {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250 fake")
		case "MAIL":
			srv.mu.Lock()
			srv.mailFrom = line
			srv.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case "RCPT":
			srv.mu.Lock()
			srv.rcptTo = line
			srv.mu.Unlock()
			_ = tp.PrintfLine("%s", srv.rcptReply)
		case "DATA":
			_ = tp.PrintfLine("354 go ahead")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			srv.mu.Lock()
			srv.data = string(body)
			srv.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")

			return
		default:
			_ = tp.PrintfLine("502 not implemented")
		}
	}
}

// startSilentListener accepts connections and never writes a byte.
func startSilentListener(t *testing.T) *net.TCPAddr {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	return ln.Addr().(*net.TCPAddr)
}

func newSenderFor(t *testing.T, host string, port int, sendTimeout time.Duration) *smtpSender {
	t.Helper()

	s, err := NewSMTPSender(&config.MailConfig{
		Host:        host,
		Port:        port,
		From:        "Gramosi <no-reply@gramosi.app>",
		MaxRetries:  1,
		SendTimeout: sendTimeout,
	}, discardLogger())
	require.NoError(t, err)

	sender := s.(*smtpSender)
	sender.retryBase = time.Millisecond

	return sender
}

// sendWithin runs Send and fails the test if it has not returned after limit.
func sendWithin(t *testing.T, ctx context.Context, sender *smtpSender, limit time.Duration) error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- sender.Send(ctx, "alice@x.io", "OTP for Email Verification", "<p>123456</p>")
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(limit):
		t.Fatalf("Send still blocked after %s", limit)

		return nil
	}
}

func TestSMTPSender_Send(t *testing.T) {
	srv := startFakeSMTPServer(t, "250 OK")
	sender := newSenderFor(t, srv.host, srv.port, time.Second)

	err := sendWithin(t, context.Background(), sender, 5*time.Second)
	require.NoError(t, err)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, "MAIL FROM:<no-reply@gramosi.app>", srv.mailFrom)
	assert.Equal(t, "RCPT TO:<alice@x.io>", srv.rcptTo)
	assert.True(t, strings.HasPrefix(srv.data, "From: Gramosi <no-reply@gramosi.app>\n"))
	assert.Contains(t, srv.data, "Content-Type: text/html")
	assert.Contains(t, srv.data, "<p>123456</p>")
}

func TestSMTPSender_RejectedRecipientIsPermanent(t *testing.T) {
	srv := startFakeSMTPServer(t, "550 mailbox unavailable")
	sender := newSenderFor(t, srv.host, srv.port, time.Second)

	err := sendWithin(t, context.Background(), sender, 5*time.Second)
	require.Error(t, err)
	assert.True(t, isPermanent(err))
	assert.Contains(t, err.Error(), "after 1 attempt(s)")
}

func TestSMTPSender_SilentServerHonoursContextDeadline(t *testing.T) {
	addr := startSilentListener(t)
	sender := newSenderFor(t, addr.IP.String(), addr.Port, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	started := time.Now()
	err := sendWithin(t, ctx, sender, 5*time.Second)

	require.Error(t, err)
	assert.Less(t, time.Since(started), 3*time.Second)
}

func TestSMTPSender_SilentServerHonoursSendTimeout(t *testing.T) {
	addr := startSilentListener(t)
	sender := newSenderFor(t, addr.IP.String(), addr.Port, 200*time.Millisecond)

	err := sendWithin(t, context.Background(), sender, 5*time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read smtp greeting")
	assert.Contains(t, err.Error(), "after 2 attempt(s)")
}

func TestSMTPSender_CancelAbortsExchange(t *testing.T) {
	addr := startSilentListener(t)
	sender := newSenderFor(t, addr.IP.String(), addr.Port, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	err := sendWithin(t, ctx, sender, 5*time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPSender_RetriesTransientFailures(t *testing.T) {
	calls := 0
	sender := newTestSMTPSender(t, func(context.Context, string, []byte) error {
		calls++
		if calls < 3 {
			return &textproto.Error{Code: 421, Msg: "try again later"}
		}

		return nil
	})

	require.NoError(t, sender.Send(context.Background(), "alice@x.io", "s", "b"))
	assert.Equal(t, 3, calls)
}

func TestSMTPSender_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	sender := newTestSMTPSender(t, func(context.Context, string, []byte) error {
		calls++

		return errors.New("connection refused")
	})

	err := sender.Send(context.Background(), "alice@x.io", "s", "b")
	require.Error(t, err)
	assert.Equal(t, 3, calls, "one attempt plus two retries")
}

func TestSMTPSender_PermanentFailureIsNotRetried(t *testing.T) {
	calls := 0
	sender := newTestSMTPSender(t, func(context.Context, string, []byte) error {
		calls++

		return &textproto.Error{Code: 550, Msg: "mailbox unavailable"}
	})

	err := sender.Send(context.Background(), "nobody@x.io", "s", "b")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewSMTPSender_Validation(t *testing.T) {
	_, err := NewSMTPSender(&config.MailConfig{From: "a@b.c"}, discardLogger())
	assert.Error(t, err)

	_, err = NewSMTPSender(&config.MailConfig{Host: "smtp.example.com"}, discardLogger())
	assert.Error(t, err)

	_, err = NewSMTPSender(&config.MailConfig{Host: "smtp.example.com", From: "not an address"}, discardLogger())
	assert.Error(t, err)
}

func TestNewNotificationSender(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mail    *config.MailConfig
		wantLog bool
		wantErr bool
	}{
		{name: "not configured", mail: nil, wantLog: true},
		{name: "log provider", mail: &config.MailConfig{Provider: "log"}, wantLog: true},
		{name: "log provider in production", env: config.EnvProduction, mail: &config.MailConfig{Provider: "log"}, wantErr: true},
		{name: "smtp provider", mail: &config.MailConfig{Provider: "smtp", Host: "smtp.example.com", From: "a@b.c"}},
		{name: "unknown provider", mail: &config.MailConfig{Provider: "carrier-pigeon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Mail: tt.mail}
			cfg.Env.Env = tt.env

			sender, err := NewNotificationSender(SenderParams{Config: cfg, Logger: discardLogger()})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)

			_, isLog := sender.(*logSender)
			assert.Equal(t, tt.wantLog, isLog)
		})
	}
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender(discardLogger())

	assert.NoError(t, sender.Send(context.Background(), "alice@x.io", "s", "b"))
}
