package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	from string
	to   []string
	data string
}

type testBackend struct {
	msgs chan received
}

func (b *testBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &testSession{backend: b}, nil
}

type testSession struct {
	backend *testBackend
	from    string
	to      []string
}

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.backend.msgs <- received{from: s.from, to: s.to, data: string(b)}
	return nil
}

func (s *testSession) Reset() {
	s.from = ""
	s.to = nil
}

func (s *testSession) Logout() error { return nil }

// testCert returns the httptest certificate, valid for 127.0.0.1, and a pool
// that trusts it
func testCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()
	ts := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	pool := x509.NewCertPool()
	pool.AddCert(ts.Certificate())
	return ts.TLS.Certificates[0], pool
}

// startSMTPServer runs a go-smtp server on 127.0.0.1. tlsConfig enables
// STARTTLS, or implicit TLS when implicit is set.
func startSMTPServer(t *testing.T, tlsConfig *tls.Config, implicit bool) (string, int, chan received) {
	t.Helper()

	be := &testBackend{msgs: make(chan received, 1)}
	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second
	srv.TLSConfig = tlsConfig

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	if implicit {
		l = tls.NewListener(l, tlsConfig)
	}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	host, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return host, p, be.msgs
}

func assertDelivered(t *testing.T, msgs chan received) {
	t.Helper()
	select {
	case m := <-msgs:
		assert.Equal(t, "from@example.com", m.from)
		assert.Equal(t, []string{"owner@example.com"}, m.to)
		assert.Contains(t, m.data, "Subject: New Contact Form Submission - Deep Cleaning")
		assert.Contains(t, m.data, "Reply-To: <jane@example.com>")
		assert.Contains(t, m.data, "multipart/alternative")
		assert.Contains(t, m.data, "plain body")
		assert.Contains(t, m.data, "<p>html body</p>")
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestSMTPSender_Send(t *testing.T) {
	host, port, msgs := startSMTPServer(t, nil, false)

	s := NewSMTPSender(host, port, "", "", SecurityNone, 5*time.Second)
	require.NoError(t, s.Send(context.Background(), testMessage()))
	assertDelivered(t, msgs)
}

func TestSMTPSender_SendOverSTARTTLS(t *testing.T) {
	cert, pool := testCert(t)
	host, port, msgs := startSMTPServer(t, &tls.Config{Certificates: []tls.Certificate{cert}}, false)

	s := NewSMTPSender(host, port, "", "", SecuritySTARTTLS, 5*time.Second)
	s.rootCAs = pool
	require.NoError(t, s.Send(context.Background(), testMessage()))
	assertDelivered(t, msgs)
}

func TestSMTPSender_SendOverImplicitTLS(t *testing.T) {
	cert, pool := testCert(t)
	host, port, msgs := startSMTPServer(t, &tls.Config{Certificates: []tls.Certificate{cert}}, true)

	s := NewSMTPSender(host, port, "", "", SecurityTLS, 5*time.Second)
	s.rootCAs = pool
	require.NoError(t, s.Send(context.Background(), testMessage()))
	assertDelivered(t, msgs)
}

func TestSMTPSender_RequiresSTARTTLS(t *testing.T) {
	host, port, msgs := startSMTPServer(t, nil, false)

	s := NewSMTPSender(host, port, "", "", "", 5*time.Second)
	err := s.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "starttls")
	assert.Empty(t, msgs)
}

func TestSMTPSender_Unreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	s := NewSMTPSender("127.0.0.1", addr.Port, "", "", SecurityNone, time.Second)
	err = s.Send(context.Background(), testMessage())
	assert.ErrorIs(t, err, ErrProvider)
}

func TestSMTPSender_GivesUpOnSilentServer(t *testing.T) {
	// Accepts connections but never sends a greeting
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	addr := l.Addr().(*net.TCPAddr)

	for _, security := range []string{SecurityNone, SecuritySTARTTLS} {
		t.Run(security, func(t *testing.T) {
			s := NewSMTPSender("127.0.0.1", addr.Port, "", "", security, 200*time.Millisecond)

			start := time.Now()
			err := s.Send(context.Background(), testMessage())

			assert.ErrorIs(t, err, ErrProvider)
			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}

func TestWriteMIME_OmitsEmptyParts(t *testing.T) {
	msg := testMessage()
	msg.HTML = ""
	msg.ReplyTo = ""

	var buf bytes.Buffer
	require.NoError(t, writeMIME(&buf, msg, time.Unix(0, 0)))

	out := buf.String()
	assert.Contains(t, out, "plain body")
	assert.NotContains(t, out, "text/html")
	assert.False(t, strings.Contains(out, "Reply-To"))
}
