package mail

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/zanvidmar/oprema/internal/store"
)

// Message is a single addressed plain-text mail.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Transport delivers a single message. Implementations must bound their own
// delivery time; a failed send is reported, never retried internally.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// sendTimeout bounds one SMTP delivery attempt.
const sendTimeout = 15 * time.Second

// SMTPTransport sends messages through an SMTP server.
type SMTPTransport struct {
	client *gomail.Client
}

// NewSMTPTransport builds a transport for the given SMTP endpoint. With
// useTLS the connection requires STARTTLS; otherwise TLS is attempted but
// not required.
func NewSMTPTransport(host string, port int, username, password string, useTLS bool) (*SMTPTransport, error) {
	policy := gomail.TLSOpportunistic
	if useTLS {
		policy = gomail.TLSMandatory
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(policy),
		gomail.WithTimeout(sendTimeout),
	}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTPTransport{client: client}, nil
}

// Send delivers one message.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// Resolver picks the transport and sender address for a reminder cycle. The
// decision is re-derived from stored settings on every call so operator edits
// take effect on the next cycle without a restart.
type Resolver struct {
	DB          *sql.DB
	Default     Transport // nil when the process has no default SMTP config
	DefaultFrom string
}

// Resolve returns the transport to use: the operator-configured SMTP server
// when its configuration is complete, otherwise the process default. Returns
// nil when neither is available.
func (r *Resolver) Resolve(ctx context.Context) (Transport, error) {
	settings, err := store.GetReminderSettings(ctx, r.DB)
	if err != nil {
		return nil, err
	}
	if settings == nil || !settings.HasCustomSMTP() || !settings.CustomSMTPComplete() {
		return r.Default, nil
	}

	custom, err := NewSMTPTransport(settings.SMTPHost, *settings.SMTPPort,
		settings.SMTPUsername, settings.SMTPPassword, settings.SMTPUseTLS)
	if err != nil {
		return nil, fmt.Errorf("building custom transport: %w", err)
	}
	return custom, nil
}

// SenderAddress returns the configured sender address, falling back to the
// process default when unset.
func (r *Resolver) SenderAddress(ctx context.Context) (string, error) {
	settings, err := store.GetReminderSettings(ctx, r.DB)
	if err != nil {
		return "", err
	}
	if settings != nil && settings.SenderEmail != "" {
		return settings.SenderEmail, nil
	}
	return r.DefaultFrom, nil
}
