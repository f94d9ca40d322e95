// Package mailer delivers reminder mail over SMTP, or only logs it when no server is configured.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/platform/config"
	gomail "github.com/wneessen/go-mail"
)

const defaultTimeout = 30 * time.Second

// Transport delivers composed messages. *gomail.Client satisfies it.
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer sends plain text mail through one SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	timeout  time.Duration

	transport Transport
}

// NewSMTPMailer creates a mailer for host:port. Auth is only used when a username is set.
// A non-positive timeout falls back to 30s.
func NewSMTPMailer(host string, port int, username, password, from string, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		timeout:  timeout,
	}
}

// WithTransport replaces the SMTP client, mostly for tests.
func (m *SMTPMailer) WithTransport(t Transport) *SMTPMailer {
	m.transport = t
	return m
}

var _ portssvc.Mailer = (*SMTPMailer)(nil)

// Send delivers one message. The whole exchange, greeting included, is bounded by ctx and by
// the mailer timeout, whichever ends first.
func (m *SMTPMailer) Send(ctx context.Context, mail portssvc.Mail) error {
	if len(mail.To) == 0 {
		return errors.New("mail has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(mail)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	transport := m.transport
	if transport == nil {
		if transport, err = m.newClient(); err != nil {
			return err
		}
	}
	if err := transport.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s:%d: %w", m.host, m.port, err)
	}
	return nil
}

func (m *SMTPMailer) compose(mail portssvc.Mail) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	if err := msg.To(mail.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(sanitizeHeader(mail.Subject))
	msg.SetBodyString(gomail.TypeTextPlain, mail.Body)
	return msg, nil
}

func (m *SMTPMailer) newClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTimeout(m.timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithDialContextFunc(deadlineDialer),
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password))
	}
	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client for %s: %w", m.host, err)
	}
	return client, nil
}

// deadlineDialer carries the context deadline onto the connection so that a relay which
// accepts TCP but never answers cannot block past it.
func deadlineDialer(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// LogMailer writes mail to the log instead of sending it.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

var _ portssvc.Mailer = (*LogMailer)(nil)

func (m *LogMailer) Send(ctx context.Context, mail portssvc.Mail) error {
	m.logger.InfoContext(ctx, "Mail not sent, no SMTP host configured",
		slog.Any("to", mail.To), slog.String("subject", mail.Subject))
	return nil
}

// New picks the SMTP mailer when SMTP_HOST is set and the log mailer otherwise.
func New(cfg *config.Config, logger *slog.Logger) portssvc.Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPTimeout)
}
