package mail

import (
	"context"
	"errors"
)

// ErrProvider is returned when the outbound provider rejects or fails to
// accept a message
var ErrProvider = errors.New("mail provider error")

// Message is a fully composed email ready for delivery
type Message struct {
	FromName string
	From     string
	To       string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

// Sender hands a message to an outbound email provider
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Name() string
}
