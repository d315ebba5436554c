package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/pkg/checkout"
)

// mockProvider scripts the processor's answers.
type mockProvider struct {
	SessionURL  string
	SessionErr  error
	VerifyResp  *checkout.VerifyResponse
	VerifyErr   error
	LastSession checkout.SessionRequest
	LastVerify  checkout.VerifyRequest
}

func (m *mockProvider) CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.SessionResponse, error) {
	m.LastSession = req
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return &checkout.SessionResponse{URL: m.SessionURL}, nil
}

func (m *mockProvider) VerifySession(ctx context.Context, req checkout.VerifyRequest) (*checkout.VerifyResponse, error) {
	m.LastVerify = req
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	return m.VerifyResp, nil
}

func newCheckoutFixture(provider checkout.Provider) (*MockPaymentStore, *CheckoutService) {
	store := NewMockPaymentStore()
	svc := newTestService(store, NewMockClientStore(), NewMockTaskStore(), NewMockNotificationStore(), nil)
	cs := NewCheckoutService(store, svc, provider, "Anthem InfoTech Pvt Ltd", time.Second)
	return store, cs
}

func TestCheckoutService_Initiate(t *testing.T) {
	ctx := context.Background()
	client := domain.Actor{UserID: "u1", Role: domain.RoleClient, ClientID: "client-1"}

	t.Run("Given payable payment When Initiate called Then single line item session and url returned", func(t *testing.T) {
		provider := &mockProvider{SessionURL: "https://pay.example.com/s/123"}
		store, cs := newCheckoutFixture(provider)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusInvoiced, 750, nil, time.Now())

		url, err := cs.Initiate(ctx, client, "p1")
		if err != nil {
			t.Fatalf("Initiate failed: %v", err)
		}
		if url != "https://pay.example.com/s/123" {
			t.Errorf("unexpected url %q", url)
		}
		if len(provider.LastSession.Items) != 1 {
			t.Fatalf("expected 1 line item, got %d", len(provider.LastSession.Items))
		}
		item := provider.LastSession.Items[0]
		if item.Name != "Anthem InfoTech Pvt Ltd" || item.Price != 750 || item.Quantity != 1 {
			t.Errorf("unexpected line item %+v", item)
		}
		if provider.LastSession.PaymentID != "p1" {
			t.Errorf("payment id not forwarded: %q", provider.LastSession.PaymentID)
		}
	})

	t.Run("Given payment in due status When Initiate called Then rejected as not payable", func(t *testing.T) {
		store, cs := newCheckoutFixture(&mockProvider{SessionURL: "x"})
		seedPayment(store, "p1", "client-1", domain.PaymentStatusDue, 100, nil, time.Now())

		_, err := cs.Initiate(ctx, client, "p1")

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("Given processor failure When Initiate called Then CheckoutInitiationError and payment unchanged", func(t *testing.T) {
		provider := &mockProvider{SessionErr: errors.New("connection refused")}
		store, cs := newCheckoutFixture(provider)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusPending, 100, nil, time.Now())

		_, err := cs.Initiate(ctx, client, "p1")

		var cerr *domain.CheckoutInitiationError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected CheckoutInitiationError, got %v", err)
		}
		if store.Payments["p1"].Status != domain.PaymentStatusPending {
			t.Error("payment must be unchanged after initiation failure")
		}
	})

	t.Run("Given another client's payment When Initiate called Then NotFoundError", func(t *testing.T) {
		store, cs := newCheckoutFixture(&mockProvider{SessionURL: "x"})
		seedPayment(store, "p1", "client-2", domain.PaymentStatusInvoiced, 100, nil, time.Now())

		_, err := cs.Initiate(ctx, client, "p1")

		var nerr *domain.NotFoundError
		if !errors.As(err, &nerr) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestCheckoutService_Verify(t *testing.T) {
	ctx := context.Background()
	client := domain.Actor{UserID: "u1", Role: domain.RoleClient, ClientID: "client-1"}

	t.Run("Given processor confirms When Verify called Then payment settles with session id as transaction", func(t *testing.T) {
		provider := &mockProvider{VerifyResp: &checkout.VerifyResponse{Success: true}}
		store, cs := newCheckoutFixture(provider)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusPending, 100, nil, time.Now())

		res, err := cs.Verify(ctx, client, "sess_abc", "p1")
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if res.Payment.Status != domain.PaymentStatusReceived {
			t.Errorf("expected received, got %s", res.Payment.Status)
		}
		if res.Payment.TransactionID != "sess_abc" {
			t.Errorf("session id should become transaction id, got %q", res.Payment.TransactionID)
		}
	})

	t.Run("Given processor denies When Verify called Then VerificationError and payment untouched", func(t *testing.T) {
		provider := &mockProvider{VerifyResp: &checkout.VerifyResponse{Success: false, Message: "session expired"}}
		store, cs := newCheckoutFixture(provider)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusPending, 100, nil, time.Now())

		_, err := cs.Verify(ctx, client, "sess_abc", "p1")

		var verr *domain.VerificationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected VerificationError, got %v", err)
		}
		if store.Payments["p1"].Status != domain.PaymentStatusPending {
			t.Error("payment must not settle on denial")
		}
	})

	t.Run("Given processor unreachable When Verify called Then VerificationError, never assumed success", func(t *testing.T) {
		provider := &mockProvider{VerifyErr: errors.New("timeout")}
		store, cs := newCheckoutFixture(provider)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusPending, 100, nil, time.Now())

		_, err := cs.Verify(ctx, client, "sess_abc", "p1")

		var verr *domain.VerificationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected VerificationError, got %v", err)
		}
		if store.Payments["p1"].Status != domain.PaymentStatusPending {
			t.Error("payment must not settle when processor is unreachable")
		}
	})

	t.Run("Given blank session id When Verify called Then VerificationError without processor call", func(t *testing.T) {
		provider := &mockProvider{VerifyResp: &checkout.VerifyResponse{Success: true}}
		_, cs := newCheckoutFixture(provider)

		_, err := cs.Verify(ctx, client, "  ", "p1")

		var verr *domain.VerificationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected VerificationError, got %v", err)
		}
		if provider.LastVerify.SessionID != "" {
			t.Error("processor should not have been called")
		}
	})
}
