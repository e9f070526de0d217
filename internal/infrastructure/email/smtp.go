package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/xhit/go-simple-mail/v2"
)

var Encryptions = map[string]mail.Encryption{
	"None":     mail.EncryptionNone,
	"SSL":      mail.EncryptionSSL,
	"TLS":      mail.EncryptionTLS,
	"SSLTLS":   mail.EncryptionSSLTLS,
	"STARTTLS": mail.EncryptionSTARTTLS,
}

type SmtpEmailService struct {
	Host           string
	Port           int
	Encryption     mail.Encryption
	Username       string
	Password       string
	Sender         string
	ConnectTimeout time.Duration
	SendTimeout    time.Duration
	Insecure       bool
}

func (s *SmtpEmailService) connect(ctx context.Context) (*mail.SMTPClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	smtp := mail.NewSMTPClient()
	smtp.Host = s.Host
	smtp.Port = s.Port
	smtp.Username = s.Username
	smtp.Password = s.Password
	smtp.Encryption = s.Encryption
	smtp.KeepAlive = false
	smtp.ConnectTimeout = s.ConnectTimeout
	smtp.SendTimeout = s.SendTimeout
	if smtp.ConnectTimeout == 0 {
		smtp.ConnectTimeout = 10 * time.Second
	}
	if smtp.SendTimeout == 0 {
		smtp.SendTimeout = 30 * time.Second
	}
	if s.Insecure {
		smtp.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client, err := smtp.Connect()
	if err != nil {
		return nil, fmt.Errorf("smtp connect: %w", err)
	}
	return client, nil
}

func (s *SmtpEmailService) newMessage(msg Message) *mail.Email {
	email := mail.NewMSG()
	email.SetFrom(s.Sender)
	email.SetSubject(msg.Subject)
	if msg.Text != "" {
		email.SetBody(mail.TextPlain, msg.Text)
		if msg.HTML != "" {
			email.AddAlternative(mail.TextHTML, msg.HTML)
		}
	} else {
		email.SetBody(mail.TextHTML, msg.HTML)
	}
	return email
}

func (s *SmtpEmailService) deliver(ctx context.Context, email *mail.Email) error {
	if email.Error != nil {
		return email.Error
	}
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return email.Send(client)
}

func (s *SmtpEmailService) Send(ctx context.Context, msg Message, to string) error {
	email := s.newMessage(msg)
	email.AddTo(to)
	return s.deliver(ctx, email)
}

// SendBatch sends one message addressed to the sender, with the batch in Bcc
// so recipients don't see each other.
func (s *SmtpEmailService) SendBatch(ctx context.Context, msg Message, recipients []string) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	email := s.newMessage(msg)
	email.AddTo(s.Sender)
	email.AddBcc(recipients...)
	return s.deliver(ctx, email)
}
