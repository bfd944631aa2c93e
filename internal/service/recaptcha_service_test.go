package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mesaverdecleaning/site/internal/config"

	"github.com/stretchr/testify/assert"
)

func newRecaptchaServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		seen = append(seen, r.PostForm.Get("secret")+"|"+r.PostForm.Get("response"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func recaptchaFor(url, secret, action string) *RecaptchaService {
	return NewRecaptchaService(config.RecaptchaConfig{
		SecretKey:      secret,
		VerifyURL:      url,
		MinScore:       0.5,
		ExpectedAction: action,
	}, 2*time.Second)
}

func TestVerifyToken(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		action string
		want   bool
	}{
		{"accepted", http.StatusOK, `{"success":true,"score":0.9,"action":"contact_form"}`, "", true},
		{"score at threshold", http.StatusOK, `{"success":true,"score":0.5}`, "", true},
		{"score too low", http.StatusOK, `{"success":true,"score":0.3}`, "", false},
		{"provider failure", http.StatusOK, `{"success":false,"error-codes":["invalid-input-response"]}`, "", false},
		{"malformed json", http.StatusOK, `not json`, "", false},
		{"non-200", http.StatusInternalServerError, `{}`, "", false},
		{"action matches", http.StatusOK, `{"success":true,"score":0.9,"action":"contact_form"}`, "contact_form", true},
		{"action mismatch", http.StatusOK, `{"success":true,"score":0.9,"action":"login"}`, "contact_form", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newRecaptchaServer(t, tt.status, tt.body)
			s := recaptchaFor(srv.URL, "server-secret", tt.action)

			ok, err := s.VerifyToken(context.Background(), "client-token")
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrVerification)
			}
			assert.Equal(t, []string{"server-secret|client-token"}, *seen)
		})
	}
}

func TestVerifyToken_FailsClosedWithoutCalling(t *testing.T) {
	srv, seen := newRecaptchaServer(t, http.StatusOK, `{"success":true,"score":1}`)

	ok, err := recaptchaFor(srv.URL, "", "").VerifyToken(context.Background(), "token")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrVerification)

	ok, err = recaptchaFor(srv.URL, "secret", "").VerifyToken(context.Background(), "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrVerification)

	assert.Empty(t, *seen)
}

func TestVerifyToken_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ok, err := recaptchaFor(url, "secret", "").VerifyToken(context.Background(), "token")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrVerification)
}
