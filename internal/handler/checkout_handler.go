package handler

import (
	"errors"
	"net/http"

	"agencydesk/internal/domain"
	"agencydesk/internal/middleware"
	"agencydesk/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc *service.CheckoutService
}

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Initiate creates a checkout session for a payable payment and returns the
// processor's redirect URL. Nothing about the payment changes here.
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	actor := middleware.GetActor(c)
	url, err := h.svc.Initiate(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondErr(c, "initiate checkout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type VerifyRequest struct {
	SessionID string `json:"session_id"`
	PaymentID string `json:"payment_id" binding:"required"`
}

// Verify reconciles a returned checkout session. The payment only moves to
// received when the processor answers positively; every other outcome comes
// back as success=false with the processor's message.
func (h *CheckoutHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := middleware.GetActor(c)
	res, err := h.svc.Verify(c.Request.Context(), actor, req.SessionID, req.PaymentID)
	warning, ok := deliveryWarning("verify checkout", err)
	if !ok {
		var verification *domain.VerificationError
		if errors.As(err, &verification) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": verification.Error()})
			return
		}
		respondErr(c, "verify checkout", err)
		return
	}
	body := gin.H{
		"success":     true,
		"message":     "payment verified",
		"payment":     res.Payment,
		"client_name": res.ClientName,
		"task_title":  res.TaskTitle,
	}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}
