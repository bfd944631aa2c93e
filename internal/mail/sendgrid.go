package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridSender delivers messages through the SendGrid v3 mail API
type SendGridSender struct {
	apiKey  string
	host    string
	timeout time.Duration
	client  *rest.Client
}

// NewSendGridSender creates a sender whose calls give up after timeout. An
// empty host uses api.sendgrid.com.
func NewSendGridSender(apiKey, host string, timeout time.Duration) *SendGridSender {
	return &SendGridSender{
		apiKey:  apiKey,
		host:    host,
		timeout: timeout,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func (s *SendGridSender) Name() string { return "sendgrid" }

func (s *SendGridSender) Send(ctx context.Context, msg *Message) error {
	from := sgmail.NewEmail(msg.FromName, msg.From)
	to := sgmail.NewEmail("", msg.To)
	m := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(m)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("%w: sendgrid request failed: %v", ErrProvider, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: sendgrid returned status %d: %s", ErrProvider, resp.StatusCode, resp.Body)
	}
	return nil
}
