package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op provider for development; every session verifies
// successfully as long as its id carries the stub prefix.
type StubProvider struct{}

func (s *StubProvider) CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	return &SessionResponse{
		URL: fmt.Sprintf("https://checkout.example.com/session/stub_%d_%s", time.Now().UnixNano(), req.PaymentID),
	}, nil
}

func (s *StubProvider) VerifySession(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	if strings.HasPrefix(req.SessionID, "stub_") {
		return &VerifyResponse{Success: true}, nil
	}
	return &VerifyResponse{Success: false, Message: "unknown session"}, nil
}
