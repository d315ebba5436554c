package service

import (
	"context"
	"log"
	"strings"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/pkg/checkout"
)

// CheckoutService hands a payment off to the external processor and
// reconciles the verification result back through the transition engine.
type CheckoutService struct {
	payments PaymentStore
	svc      *PaymentService
	provider checkout.Provider
	payee    string
	timeout  time.Duration
}

func NewCheckoutService(payments PaymentStore, svc *PaymentService, provider checkout.Provider, payee string, timeout time.Duration) *CheckoutService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CheckoutService{payments: payments, svc: svc, provider: provider, payee: payee, timeout: timeout}
}

// Initiate builds a single-line-item checkout session for the payment and
// returns the redirect URL. The payment is left unmodified; on any processor
// failure the caller gets a CheckoutInitiationError.
func (s *CheckoutService) Initiate(ctx context.Context, actor domain.Actor, paymentID string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p, err := s.payments.GetByID(cctx, paymentID)
	if err != nil {
		return "", storeErr("fetch payment", paymentID, err)
	}
	if actor.IsClient() && p.ClientID != actor.ClientID {
		return "", &domain.NotFoundError{Resource: "payment", ID: paymentID}
	}
	if !domain.PayableStatus(p.Status) {
		return "", domain.Invalid("status", "payment in status "+p.Status+" cannot be paid")
	}
	resp, err := s.provider.CreateSession(cctx, checkout.SessionRequest{
		Items: []checkout.LineItem{
			{Name: s.payee, Price: p.Amount, Quantity: 1},
		},
		PaymentID: p.ID,
	})
	if err != nil {
		log.Printf("[Checkout] initiate failed payment_id=%s: %v", paymentID, err)
		return "", &domain.CheckoutInitiationError{Err: err}
	}
	return resp.URL, nil
}

// Verify asks the processor about a returned session and, only on a positive
// answer, settles the payment through MarkPaid with the session id as
// transaction reference. A missing session id, a transport failure or a
// negative answer all leave the payment untouched.
func (s *CheckoutService) Verify(ctx context.Context, actor domain.Actor, sessionID, paymentID string) (*MarkPaidResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &domain.VerificationError{Message: "missing session id"}
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	resp, err := s.provider.VerifySession(cctx, checkout.VerifyRequest{SessionID: sessionID, PaymentID: paymentID})
	if err != nil {
		log.Printf("[Checkout] verify failed session_id=%s: %v", sessionID, err)
		return nil, &domain.VerificationError{Message: "processor unreachable"}
	}
	if !resp.Success {
		return nil, &domain.VerificationError{Message: resp.Message}
	}
	return s.svc.MarkPaid(ctx, actor, paymentID, MarkPaidInput{TransactionID: sessionID})
}
