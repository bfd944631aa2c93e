package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mesaverdecleaning/site/internal/api/constants"
	"github.com/mesaverdecleaning/site/internal/api/dto/v1/contact"
	"github.com/mesaverdecleaning/site/internal/models"
	"github.com/mesaverdecleaning/site/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{ ok bool }

func (v stubVerifier) VerifyToken(context.Context, string) (bool, error) { return v.ok, nil }

type stubRelay struct {
	ready bool
	got   []*service.ContactMessageInfo
}

func (r *stubRelay) Ready() bool { return r.ready }

func (r *stubRelay) SendContactMessage(_ context.Context, _ *models.ContactSubmission, info *service.ContactMessageInfo) error {
	r.got = append(r.got, info)
	return nil
}

func newContext(req *contact.ContactRequest) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	c.Request.Header.Set("User-Agent", "handler-test")
	c.Request.Header.Set("Referer", "https://mesaverdecleaning.com/contact")
	c.Set(constants.ContextKeyRequestID, "req-42")
	if req != nil {
		c.Set(constants.ContextKeyContact, req)
	}
	return c, w
}

func TestSubmit_WithoutValidatedRequest(t *testing.T) {
	relay := &stubRelay{ready: true}
	h := NewContactHandler(stubVerifier{ok: true}, relay)

	c, w := newContext(nil)
	h.Submit(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, relay.got)
}

func TestSubmit_VerifierReturnsFalseWithoutError(t *testing.T) {
	relay := &stubRelay{ready: true}
	h := NewContactHandler(stubVerifier{ok: false}, relay)

	c, w := newContext(&contact.ContactRequest{Name: "Jane"})
	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, relay.got)
}

func TestSubmit_PassesRequestContext(t *testing.T) {
	relay := &stubRelay{ready: true}
	h := NewContactHandler(stubVerifier{ok: true}, relay)

	c, w := newContext(&contact.ContactRequest{Name: "Jane"})
	h.Submit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, relay.got, 1)
	assert.Equal(t, "handler-test", relay.got[0].UserAgent)
	assert.Equal(t, "https://mesaverdecleaning.com/contact", relay.got[0].Referrer)
	assert.Equal(t, "req-42", relay.got[0].RequestID)
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(func() bool { return false })

	c, w := newContext(nil)
	h.Check(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","mailReady":false,"version":"dev"}`, w.Body.String())
}
