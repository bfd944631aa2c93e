package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/mail"
	"github.com/mesaverdecleaning/site/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock mail.Sender
type mockSender struct {
	mu       sync.Mutex
	sent     []*mail.Message
	sendFunc func(ctx context.Context, msg *mail.Message) error
}

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Send(ctx context.Context, msg *mail.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		FromAddress: "contact@mesaverdecleaning.com",
		FromName:    "Mesa Verde Cleaning Contact Form",
		ToAddress:   "owner@mesaverdecleaning.com",
	}
}

func testSubmission() *models.ContactSubmission {
	return &models.ContactSubmission{
		Name:             "Jane <Doe>",
		Email:            "jane@example.com",
		Phone:            "(970) 555-0100",
		Service:          "Deep Cleaning",
		Message:          "Please clean\nthe whole house & garage",
		PreferredContact: models.ContactByPhone,
		RecaptchaToken:   "tok-123",
	}
}

func TestSendContactMessage_ComposesAllFields(t *testing.T) {
	sender := &mockSender{}
	svc := NewContactMailService(sender, testMailConfig(), "Mesa Verde Cleaning")

	info := &ContactMessageInfo{IPAddress: "203.0.113.7", UserAgent: "test-agent", RequestID: "req-1"}
	require.NoError(t, svc.SendContactMessage(context.Background(), testSubmission(), info))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "contact@mesaverdecleaning.com", msg.From)
	assert.Equal(t, "Mesa Verde Cleaning Contact Form", msg.FromName)
	assert.Equal(t, "owner@mesaverdecleaning.com", msg.To)
	assert.Equal(t, "jane@example.com", msg.ReplyTo)
	assert.Equal(t, "New Contact Form Submission - Deep Cleaning", msg.Subject)

	for _, want := range []string{"Jane <Doe>", "jane@example.com", "(970) 555-0100", "Deep Cleaning",
		"Please clean\nthe whole house & garage", "phone", "tok-123", "203.0.113.7", "req-1"} {
		assert.Contains(t, msg.Text, want)
	}

	assert.Contains(t, msg.HTML, "Jane &lt;Doe&gt;")
	assert.Contains(t, msg.HTML, "house &amp; garage")
	assert.Contains(t, msg.HTML, "(970) 555-0100")
	assert.Contains(t, msg.HTML, "tok-123")
	assert.NotContains(t, msg.HTML, "<Doe>")
}

func TestSendContactMessage_EmptyPhone(t *testing.T) {
	sender := &mockSender{}
	svc := NewContactMailService(sender, testMailConfig(), "Mesa Verde Cleaning")

	sub := testSubmission()
	sub.Phone = ""
	require.NoError(t, svc.SendContactMessage(context.Background(), sub, nil))
	assert.Contains(t, sender.sent[0].Text, "PHONE: (not provided)")
}

func TestSendContactMessage_SubjectIsSingleLine(t *testing.T) {
	sender := &mockSender{}
	svc := NewContactMailService(sender, testMailConfig(), "Mesa Verde Cleaning")

	sub := testSubmission()
	sub.Service = "Other\r\nBcc: victim@example.com"
	require.NoError(t, svc.SendContactMessage(context.Background(), sub, nil))
	assert.Equal(t, "New Contact Form Submission - Other Bcc: victim@example.com", sender.sent[0].Subject)
}

func TestSendContactMessage_ProviderError(t *testing.T) {
	sender := &mockSender{sendFunc: func(context.Context, *mail.Message) error {
		return errors.Join(mail.ErrProvider, errors.New("quota exceeded"))
	}}
	svc := NewContactMailService(sender, testMailConfig(), "Mesa Verde Cleaning")

	err := svc.SendContactMessage(context.Background(), testSubmission(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, mail.ErrProvider)
	assert.NotErrorIs(t, err, config.ErrMailNotConfigured)
}

func TestSendContactMessage_NotConfigured(t *testing.T) {
	svc := NewContactMailService(nil, testMailConfig(), "Mesa Verde Cleaning")
	assert.False(t, svc.Ready())

	err := svc.SendContactMessage(context.Background(), testSubmission(), nil)
	assert.ErrorIs(t, err, config.ErrMailNotConfigured)
}

func TestSendTestMessage(t *testing.T) {
	sender := &mockSender{}
	svc := NewContactMailService(sender, testMailConfig(), "Mesa Verde Cleaning")

	require.NoError(t, svc.SendTestMessage(context.Background()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Email Configuration Test", sender.sent[0].Subject)
	assert.Equal(t, "owner@mesaverdecleaning.com", sender.sent[0].To)
}

func TestNewSender(t *testing.T) {
	cfg := &config.Config{Mail: testMailConfig()}
	cfg.Mail.Provider = config.MailProviderSendGrid

	_, err := NewSender(cfg)
	assert.ErrorIs(t, err, config.ErrMailNotConfigured)

	cfg.Mail.SendGridAPIKey = "SG.key"
	s, err := NewSender(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sendgrid", s.Name())

	cfg.Mail.Provider = config.MailProviderSMTP
	cfg.Mail.SMTPHost = "smtp.example.com"
	s, err = NewSender(cfg)
	require.NoError(t, err)
	assert.Equal(t, "smtp", s.Name())
}

func TestNewSender_SendGridHonoursOutboundTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := &config.Config{Mail: testMailConfig(), Timeout: 200 * time.Millisecond}
	cfg.Mail.Provider = config.MailProviderSendGrid
	cfg.Mail.SendGridAPIKey = "SG.key"
	cfg.Mail.SendGridHost = srv.URL

	sender, err := NewSender(cfg)
	require.NoError(t, err)
	svc := NewContactMailService(sender, cfg.Mail, "Mesa Verde Cleaning")

	start := time.Now()
	err = svc.SendTestMessage(context.Background())

	assert.ErrorIs(t, err, mail.ErrProvider)
	assert.Less(t, time.Since(start), 2*time.Second)
}
