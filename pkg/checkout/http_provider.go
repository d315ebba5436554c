package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPProvider talks to the processor facade service that wraps the actual
// PayPal/Stripe integration.
type HTTPProvider struct {
	BaseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvider{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/payments/create-checkout-session", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Checkout] create session payment_id=%s status=%d body=%s", req.PaymentID, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("checkout session: %d %s", resp.StatusCode, string(respBody))
	}
	var out SessionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, fmt.Errorf("checkout session: empty redirect url")
	}
	return &out, nil
}

func (p *HTTPProvider) VerifySession(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/payments/verify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Checkout] verify session_id=%s status=%d body=%s", req.SessionID, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("checkout verify: %d %s", resp.StatusCode, string(respBody))
	}
	var out VerifyResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
