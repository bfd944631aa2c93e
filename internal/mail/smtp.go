package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTP transport security modes
const (
	SecuritySTARTTLS = "starttls"
	SecurityTLS      = "tls"
	SecurityNone     = "none"
)

// SMTPSender delivers messages to an SMTP submission server. The whole
// session, dial included, is bounded by the sender timeout.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	security string
	timeout  time.Duration
	rootCAs  *x509.CertPool
}

// NewSMTPSender creates a sender. security is one of SecuritySTARTTLS
// (mandatory upgrade, port 587), SecurityTLS (implicit TLS, port 465) or
// SecurityNone; an empty value means SecuritySTARTTLS.
func NewSMTPSender(host string, port int, username, password, security string, timeout time.Duration) *SMTPSender {
	if security == "" {
		security = SecuritySTARTTLS
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		security: security,
		timeout:  timeout,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	var body bytes.Buffer
	if err := writeMIME(&body, msg, time.Now()); err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	c, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer c.Close()

	if dl, ok := ctx.Deadline(); ok {
		c.CommandTimeout = time.Until(dl)
		c.SubmissionTimeout = time.Until(dl)
	}

	if s.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
			return fmt.Errorf("%w: auth: %v", ErrProvider, err)
		}
	}

	if err := c.SendMail(msg.From, []string{msg.To}, &body); err != nil {
		return fmt.Errorf("%w: send: %v", ErrProvider, s.ctxErr(ctx, err))
	}

	if err := c.Quit(); err != nil {
		return fmt.Errorf("%w: quit: %v", ErrProvider, err)
	}
	return nil
}

// dial connects and negotiates TLS according to the security mode. The
// connection is closed as soon as ctx is done.
func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	tlsConfig := &tls.Config{ServerName: s.host, RootCAs: s.rootCAs}

	var conn net.Conn
	var err error
	if s.security == SecurityTLS {
		d := &tls.Dialer{Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	// go-smtp sets its own per-command deadlines, so ctx is enforced by
	// closing the socket underneath it
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	if s.security != SecuritySTARTTLS {
		return smtp.NewClient(conn), nil
	}

	c, err := smtp.NewClientStartTLS(conn, tlsConfig)
	if err != nil {
		stop()
		return nil, fmt.Errorf("starttls: %w", s.ctxErr(ctx, err))
	}
	return c, nil
}

func (s *SMTPSender) ctxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w (%v)", ctxErr, err)
	}
	return err
}

// writeMIME renders msg as a multipart/alternative message
func writeMIME(w io.Writer, msg *Message, date time.Time) error {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Name: msg.FromName, Address: msg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	if msg.ReplyTo != "" {
		h.SetAddressList("Reply-To", []*mail.Address{{Address: msg.ReplyTo}})
	}
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return err
	}

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return err
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return err
	}

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain", msg.Text},
		{"text/html", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		var ph mail.InlineHeader
		ph.SetContentType(p.contentType, map[string]string{"charset": "utf-8"})
		pw, err := tw.CreatePart(ph)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(pw, p.body); err != nil {
			return err
		}
		if err := pw.Close(); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return mw.Close()
}
