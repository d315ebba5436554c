package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProvider_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Given facade returns url Then request body forwarded and url parsed", func(t *testing.T) {
		var got SessionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/payments/create-checkout-session" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(SessionResponse{URL: "https://pay.example.com/s/1"})
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, time.Second)
		resp, err := p.CreateSession(ctx, SessionRequest{
			Items:     []LineItem{{Name: "Acme", Price: 99.5, Quantity: 1}},
			PaymentID: "p1",
		})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if resp.URL != "https://pay.example.com/s/1" {
			t.Errorf("unexpected url %q", resp.URL)
		}
		if got.PaymentID != "p1" || len(got.Items) != 1 || got.Items[0].Price != 99.5 {
			t.Errorf("request body mangled: %+v", got)
		}
	})

	t.Run("Given facade returns 500 Then error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, time.Second)
		if _, err := p.CreateSession(ctx, SessionRequest{PaymentID: "p1"}); err == nil {
			t.Fatal("expected error on 500")
		}
	})

	t.Run("Given facade returns empty url Then error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SessionResponse{})
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, time.Second)
		if _, err := p.CreateSession(ctx, SessionRequest{PaymentID: "p1"}); err == nil {
			t.Fatal("expected error on empty url")
		}
	})
}

func TestHTTPProvider_VerifySession(t *testing.T) {
	ctx := context.Background()

	t.Run("Given facade denies Then success false with message, no error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(VerifyResponse{Success: false, Message: "session expired"})
		}))
		defer srv.Close()

		p := NewHTTPProvider(srv.URL, time.Second)
		resp, err := p.VerifySession(ctx, VerifyRequest{SessionID: "s1", PaymentID: "p1"})
		if err != nil {
			t.Fatalf("VerifySession failed: %v", err)
		}
		if resp.Success {
			t.Error("expected success false")
		}
		if resp.Message != "session expired" {
			t.Errorf("unexpected message %q", resp.Message)
		}
	})

	t.Run("Given facade unreachable Then transport error", func(t *testing.T) {
		p := NewHTTPProvider("http://127.0.0.1:1", 200*time.Millisecond)
		if _, err := p.VerifySession(ctx, VerifyRequest{SessionID: "s1"}); err == nil {
			t.Fatal("expected transport error")
		}
	})
}

func TestStubProvider(t *testing.T) {
	ctx := context.Background()
	s := &StubProvider{}

	resp, err := s.CreateSession(ctx, SessionRequest{PaymentID: "p1"})
	if err != nil || resp.URL == "" {
		t.Fatalf("stub session failed: %v %+v", err, resp)
	}

	ok, _ := s.VerifySession(ctx, VerifyRequest{SessionID: "stub_123_p1"})
	if !ok.Success {
		t.Error("stub session should verify")
	}
	bad, _ := s.VerifySession(ctx, VerifyRequest{SessionID: "other"})
	if bad.Success {
		t.Error("unknown session must not verify")
	}
}
