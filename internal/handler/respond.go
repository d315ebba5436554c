package handler

import (
	"errors"
	"log"
	"net/http"

	"agencydesk/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondErr maps domain errors onto HTTP statuses. Anything unrecognized is
// logged and hidden behind a 500.
func respondErr(c *gin.Context, op string, err error) {
	var (
		validation *domain.ValidationError
		mismatch   *domain.DocumentTypeMismatchError
		notFound   *domain.NotFoundError
		timeout    *domain.TimeoutError
		initiation *domain.CheckoutInitiationError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": mismatch.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, domain.ErrMutationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &timeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": timeout.Error()})
	case errors.As(err, &initiation):
		c.JSON(http.StatusBadGateway, gin.H{"error": initiation.Error()})
	default:
		log.Printf("[HTTP] %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
	}
}

// deliveryWarning splits degraded success off from real failure: when the
// mutation committed but the notification write failed, the caller still gets
// its 2xx plus a warning string.
func deliveryWarning(op string, err error) (string, bool) {
	if err == nil {
		return "", true
	}
	var delivery *domain.NotificationDeliveryError
	if errors.As(err, &delivery) {
		log.Printf("[HTTP] %s: degraded success: %v", op, delivery)
		return "notification delivery failed", true
	}
	return "", false
}
