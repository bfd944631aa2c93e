package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/mail"
	"github.com/mesaverdecleaning/site/internal/metrics"
	"github.com/mesaverdecleaning/site/internal/models"

	"go.opentelemetry.io/otel"
)

// ContactMessageInfo contains additional information about the request that
// produced a contact submission
type ContactMessageInfo struct {
	IPAddress string
	UserAgent string
	Referrer  string
	RequestID string
}

// ContactMailService relays contact form submissions to the business inbox
type ContactMailService struct {
	sender   mail.Sender
	cfg      config.MailConfig
	siteName string
}

// NewContactMailService creates a new contact mail service. A nil sender
// means the mail provider is not configured.
func NewContactMailService(sender mail.Sender, cfg config.MailConfig, siteName string) *ContactMailService {
	return &ContactMailService{
		sender:   sender,
		cfg:      cfg,
		siteName: siteName,
	}
}

// NewSender builds the mail.Sender selected by configuration, or returns an
// error wrapping config.ErrMailNotConfigured
func NewSender(cfg *config.Config) (mail.Sender, error) {
	if err := cfg.MailReady(); err != nil {
		return nil, err
	}
	switch cfg.Mail.Provider {
	case config.MailProviderSMTP:
		return mail.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUsername, cfg.Mail.SMTPPassword, cfg.Mail.SMTPSecurity, cfg.Timeout), nil
	default:
		return mail.NewSendGridSender(cfg.Mail.SendGridAPIKey, cfg.Mail.SendGridHost, cfg.Timeout), nil
	}
}

// Ready reports whether messages can be sent
func (s *ContactMailService) Ready() bool {
	return s.sender != nil
}

// SendContactMessage sends a contact form submission to the configured inbox
func (s *ContactMailService) SendContactMessage(ctx context.Context, sub *models.ContactSubmission, info *ContactMessageInfo) error {
	msg, err := s.composeContactMessage(sub, info)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

// SendTestMessage sends a short message that proves the provider accepts
// our credentials and sender address
func (s *ContactMailService) SendTestMessage(ctx context.Context) error {
	return s.send(ctx, &mail.Message{
		FromName: s.siteName + " Test",
		From:     s.cfg.FromAddress,
		To:       s.cfg.ToAddress,
		Subject:  "Email Configuration Test",
		Text:     "This is a test email to verify the email configuration of " + s.siteName + ".",
		HTML:     "<p>This is a test email to verify the email configuration of " + template.HTMLEscapeString(s.siteName) + ".</p>",
	})
}

func (s *ContactMailService) send(ctx context.Context, msg *mail.Message) error {
	if s.sender == nil {
		return config.ErrMailNotConfigured
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "mail.send")
	defer span.End()

	start := time.Now()
	err := s.sender.Send(ctx, msg)
	metrics.RecordOutboundCall(s.sender.Name(), err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to send email via %s: %w", s.sender.Name(), err)
	}
	return nil
}

type contactTemplateData struct {
	Sub  *models.ContactSubmission
	Info *ContactMessageInfo
}

var contactTextFormat = strings.TrimLeft(`
New contact form submission received:

FROM: %s <%s>
PHONE: %s
SERVICE: %s
PREFERRED CONTACT: %s

MESSAGE:
%s

--
IP: %s
User-Agent: %s
Referrer: %s
Request ID: %s
reCAPTCHA token: %s
`, "\n")

var contactHTMLTemplate = template.Must(template.New("contact").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Contact Form Submission</h2>
  <p><strong>From:</strong> {{.Sub.Name}} &lt;{{.Sub.Email}}&gt;</p>
  <p><strong>Phone:</strong> {{or .Sub.Phone "(not provided)"}}</p>
  <p><strong>Service:</strong> {{.Sub.Service}}</p>
  <p><strong>Preferred Contact:</strong> {{.Sub.PreferredContact}}</p>
  <div style="margin-top: 20px;">
    <h3>Message:</h3>
    <p style="white-space: pre-wrap;">{{.Sub.Message}}</p>
  </div>
  <hr>
  <p style="color: #888; font-size: 12px;">
    IP: {{.Info.IPAddress}}<br>
    User-Agent: {{.Info.UserAgent}}<br>
    Referrer: {{.Info.Referrer}}<br>
    Request ID: {{.Info.RequestID}}<br>
    reCAPTCHA token: {{.Sub.RecaptchaToken}}
  </p>
</div>
`))

func (s *ContactMailService) composeContactMessage(sub *models.ContactSubmission, info *ContactMessageInfo) (*mail.Message, error) {
	if info == nil {
		info = &ContactMessageInfo{}
	}

	phone := sub.Phone
	if phone == "" {
		phone = "(not provided)"
	}

	text := fmt.Sprintf(contactTextFormat,
		sub.Name, sub.Email,
		phone,
		sub.Service,
		sub.PreferredContact,
		sub.Message,
		info.IPAddress,
		info.UserAgent,
		info.Referrer,
		info.RequestID,
		sub.RecaptchaToken,
	)

	var html bytes.Buffer
	if err := contactHTMLTemplate.Execute(&html, contactTemplateData{Sub: sub, Info: info}); err != nil {
		return nil, fmt.Errorf("failed to render contact email: %w", err)
	}

	return &mail.Message{
		FromName: s.cfg.FromName,
		From:     s.cfg.FromAddress,
		To:       s.cfg.ToAddress,
		ReplyTo:  sub.Email,
		Subject:  "New Contact Form Submission - " + strings.Join(strings.Fields(sub.Service), " "),
		Text:     text,
		HTML:     html.String(),
	}, nil
}
