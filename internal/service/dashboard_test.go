package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"
)

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()

	seed := func() (*MockClientStore, *MockTaskStore, *MockPaymentStore) {
		clients := NewMockClientStore()
		clients.Clients["client-1"] = &models.Client{ID: "client-1", Name: "Acme"}
		clients.Clients["client-2"] = &models.Client{ID: "client-2", Name: "Globex"}

		tasks := NewMockTaskStore()
		tasks.Tasks["t1"] = &models.Task{ID: "t1", ClientID: "client-1", Status: domain.TaskStatusProgress}
		tasks.Tasks["t2"] = &models.Task{ID: "t2", ClientID: "client-1", Status: domain.TaskStatusComplete}
		tasks.Tasks["t3"] = &models.Task{ID: "t3", ClientID: "client-2", Status: domain.TaskStatusQuote}

		payments := NewMockPaymentStore()
		seedPayment(payments, "p1", "client-1", domain.PaymentStatusDue, 100, nil, time.Now())
		seedPayment(payments, "p2", "client-1", domain.PaymentStatusReceived, 100, nil, time.Now())
		seedPayment(payments, "p3", "client-2", domain.PaymentStatusOverdue, 100, nil, time.Now())
		seedPayment(payments, "p4", "client-2", domain.PaymentStatusCanceled, 100, nil, time.Now())
		return clients, tasks, payments
	}

	t.Run("Given admin actor Then agency-wide counts including total clients", func(t *testing.T) {
		clients, tasks, payments := seed()
		svc := NewDashboardService(clients, tasks, payments, time.Second)

		stats, err := svc.Stats(ctx, admin)
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.TotalClients == nil || *stats.TotalClients != 2 {
			t.Errorf("expected 2 total clients, got %v", stats.TotalClients)
		}
		if stats.ActiveTasks != 2 || stats.CompletedTasks != 1 {
			t.Errorf("expected 2 active / 1 completed tasks, got %d/%d", stats.ActiveTasks, stats.CompletedTasks)
		}
		if stats.PendingPayments != 2 {
			t.Errorf("expected 2 pending payments, got %d", stats.PendingPayments)
		}
	})

	t.Run("Given client actor Then counts scoped to own client and no total clients", func(t *testing.T) {
		clients, tasks, payments := seed()
		svc := NewDashboardService(clients, tasks, payments, time.Second)

		actor := domain.Actor{UserID: "u1", Role: domain.RoleClient, ClientID: "client-1"}
		stats, err := svc.Stats(ctx, actor)
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.TotalClients != nil {
			t.Error("client response must not expose the client count")
		}
		if stats.ActiveTasks != 1 || stats.CompletedTasks != 1 {
			t.Errorf("expected 1 active / 1 completed tasks, got %d/%d", stats.ActiveTasks, stats.CompletedTasks)
		}
		if stats.PendingPayments != 1 {
			t.Errorf("expected 1 pending payment, got %d", stats.PendingPayments)
		}
	})

	t.Run("Given client actor without client id Then ValidationError", func(t *testing.T) {
		clients, tasks, payments := seed()
		svc := NewDashboardService(clients, tasks, payments, time.Second)

		_, err := svc.Stats(ctx, domain.Actor{UserID: "u1", Role: domain.RoleClient})

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for unscoped client actor, got %v", err)
		}
	})

	t.Run("Given soft-deleted payment Then excluded from pending count", func(t *testing.T) {
		clients, tasks, payments := seed()
		payments.Payments["p1"].IsDeleted = true
		svc := NewDashboardService(clients, tasks, payments, time.Second)

		stats, err := svc.Stats(ctx, admin)
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.PendingPayments != 1 {
			t.Errorf("expected 1 pending payment after delete, got %d", stats.PendingPayments)
		}
	})

	t.Run("Given client count failure Then error surfaces", func(t *testing.T) {
		clients, tasks, payments := seed()
		clients.CountErr = ErrMockStore
		svc := NewDashboardService(clients, tasks, payments, time.Second)

		if _, err := svc.Stats(ctx, admin); !errors.Is(err, ErrMockStore) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
	})
}
