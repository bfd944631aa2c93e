package handlers

import (
	"net/http"

	"github.com/mesaverdecleaning/site/internal/version"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports liveness and whether the contact form can deliver mail
type HealthResponse struct {
	Status    string `json:"status"`
	MailReady bool   `json:"mailReady"`
	Version   string `json:"version"`
}

type HealthHandler struct {
	mailReady func() bool
}

func NewHealthHandler(mailReady func() bool) *HealthHandler {
	return &HealthHandler{mailReady: mailReady}
}

// Check always answers 200 while the process serves requests
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		MailReady: h.mailReady(),
		Version:   version.Version,
	})
}
