package handlers

import (
	"context"
	"net/http"

	"github.com/mesaverdecleaning/site/internal/api/constants"
	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/api/dto/v1/contact"
	"github.com/mesaverdecleaning/site/internal/metrics"
	"github.com/mesaverdecleaning/site/internal/models"
	"github.com/mesaverdecleaning/site/internal/service"
	"github.com/mesaverdecleaning/site/internal/utils"

	"github.com/gin-gonic/gin"
)

// Verifier checks a bot-mitigation token
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (bool, error)
}

// Relay delivers a contact submission to the business inbox
type Relay interface {
	Ready() bool
	SendContactMessage(ctx context.Context, sub *models.ContactSubmission, info *service.ContactMessageInfo) error
}

type ContactHandler struct {
	verifier Verifier
	relay    Relay
}

func NewContactHandler(verifier Verifier, relay Relay) *ContactHandler {
	return &ContactHandler{
		verifier: verifier,
		relay:    relay,
	}
}

// Ready reports whether submissions can be relayed
func (h *ContactHandler) Ready() bool {
	return h.relay.Ready()
}

// Submit verifies and relays a contact form submission that already passed
// the validation middleware
func (h *ContactHandler) Submit(c *gin.Context) {
	// Get contact data from context (set by validation middleware)
	contactData, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		utils.HandleInternalError(c, nil)
		return
	}

	req, ok := contactData.(*contact.ContactRequest)
	if !ok {
		utils.HandleInternalError(c, nil)
		return
	}

	ctx := c.Request.Context()

	if ok, err := h.verifier.VerifyToken(ctx, req.RecaptchaToken); err != nil || !ok {
		metrics.IncrementSubmission(metrics.OutcomeVerificationFail)
		utils.LogError(err, "reCAPTCHA verification failed for "+utils.GetRealIP(c))
		c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(common.MsgVerificationFailed, nil))
		return
	}

	info := &service.ContactMessageInfo{
		IPAddress: utils.GetRealIP(c),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		RequestID: c.GetString(constants.ContextKeyRequestID),
	}

	if err := h.relay.SendContactMessage(ctx, req.ToSubmission(), info); err != nil {
		metrics.IncrementSubmission(metrics.OutcomeRelayFailed)
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.MsgSendFailed)
		return
	}

	metrics.IncrementSubmission(metrics.OutcomeSent)
	utils.HandleSuccess(c, common.MsgMessageSentOK)
}
