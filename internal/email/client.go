package email

import (
	"crypto/tls"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Client sends notification emails over SMTP.
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
	logger    *zap.Logger
}

// NewClient builds an SMTP client from configuration strings.
func NewClient(host, portStr, user, password, fromName, fromEmail string, logger *zap.Logger) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port: %w", err)
	}

	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    logger,
	}, nil
}

// Send delivers a single HTML email.
func (c *Client) Send(to, subject, htmlBody string) error {
	m := mail.NewMsg()
	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	c.logger.Debug("smtp connect", zap.String("host", c.host), zap.Int("port", c.port), zap.String("user", c.user))

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client (host=%s port=%d): %w", c.host, c.port, err)
	}

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail (host=%s port=%d): %w", c.host, c.port, err)
	}
	return nil
}
