package email

import (
	"context"
	"errors"
)

var ErrNoRecipients = errors.New("No email recipients")

type Message struct {
	Subject string
	HTML    string
	Text    string
}

// EmailService delivers a message to one address, or to a whole batch in a
// single transport call.
type EmailService interface {
	Send(ctx context.Context, msg Message, to string) error
	SendBatch(ctx context.Context, msg Message, recipients []string) error
}
