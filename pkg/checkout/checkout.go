// Package checkout bridges to the external payment processor facade. It only
// constructs sessions and interprets their verification result; payment state
// transitions stay with the caller.
package checkout

import "context"

type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type SessionRequest struct {
	Items     []LineItem `json:"items"`
	PaymentID string     `json:"paymentId"`
}

// SessionResponse carries the redirect URL the payer is sent to.
type SessionResponse struct {
	URL string `json:"url"`
}

type VerifyRequest struct {
	SessionID string `json:"sessionId"`
	PaymentID string `json:"paymentId"`
}

// VerifyResponse reports what the processor knows about a returned session.
// Success false means the payment must be treated as not completed.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error)
	VerifySession(ctx context.Context, req VerifyRequest) (*VerifyResponse, error)
}
