package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"
)

func TestClassifyReminder(t *testing.T) {
	now := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)

	due := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	t.Run("Given pending payment due in 10 days Then upcoming", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusPending, DueDate: due(10)}
		kind, days := ClassifyReminder(p, now)
		if kind != ReminderUpcoming {
			t.Fatalf("expected upcoming, got %q", kind)
		}
		if days != 10 {
			t.Errorf("expected 10 days, got %d", days)
		}
	})

	t.Run("Given invoiced payment due in 11 days Then no reminder", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusInvoiced, DueDate: due(11)}
		kind, _ := ClassifyReminder(p, now)
		if kind != ReminderNone {
			t.Fatalf("expected none, got %q", kind)
		}
	})

	t.Run("Given invoiced payment already past due Then still upcoming until swept", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusInvoiced, DueDate: due(-3)}
		kind, days := ClassifyReminder(p, now)
		if kind != ReminderUpcoming {
			t.Fatalf("expected upcoming, got %q", kind)
		}
		if days != -3 {
			t.Errorf("expected -3 days, got %d", days)
		}
	})

	t.Run("Given overdue payment with past due date Then overdue-alert", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusOverdue, DueDate: due(-1)}
		kind, _ := ClassifyReminder(p, now)
		if kind != ReminderOverdue {
			t.Fatalf("expected overdue-alert, got %q", kind)
		}
	})

	t.Run("Given due date later today Then zero days counts as upcoming", func(t *testing.T) {
		d := time.Date(2026, 8, 15, 23, 59, 0, 0, time.UTC)
		p := &models.Payment{Status: domain.PaymentStatusPending, DueDate: &d}
		kind, days := ClassifyReminder(p, now)
		if kind != ReminderUpcoming || days != 0 {
			t.Fatalf("expected upcoming/0, got %q/%d", kind, days)
		}
	})

	t.Run("Given received payment Then never classified", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusReceived, DueDate: due(2)}
		kind, _ := ClassifyReminder(p, now)
		if kind != ReminderNone {
			t.Fatalf("expected none, got %q", kind)
		}
	})

	t.Run("Given soft-deleted payment Then never classified", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusOverdue, DueDate: due(-5), IsDeleted: true}
		kind, _ := ClassifyReminder(p, now)
		if kind != ReminderNone {
			t.Fatalf("expected none, got %q", kind)
		}
	})

	t.Run("Given no due date Then never classified", func(t *testing.T) {
		p := &models.Payment{Status: domain.PaymentStatusPending}
		kind, _ := ClassifyReminder(p, now)
		if kind != ReminderNone {
			t.Fatalf("expected none, got %q", kind)
		}
	})
}

func TestPaymentService_Reminders(t *testing.T) {
	ctx := context.Background()

	t.Run("Given mixed payments When client requests reminders Then only its own classified ones", func(t *testing.T) {
		store := NewMockPaymentStore()
		soon := time.Now().AddDate(0, 0, 3)
		far := time.Now().AddDate(0, 0, 30)
		seedPayment(store, "mine-soon", "client-1", domain.PaymentStatusPending, 100, &soon, time.Now())
		seedPayment(store, "mine-far", "client-1", domain.PaymentStatusPending, 100, &far, time.Now())
		seedPayment(store, "theirs", "client-2", domain.PaymentStatusPending, 100, &soon, time.Now())
		svc := newTestService(store, NewMockClientStore(), NewMockTaskStore(), NewMockNotificationStore(), nil)

		actor := domain.Actor{UserID: "u1", Role: domain.RoleClient, ClientID: "client-1"}
		reminders, err := svc.Reminders(ctx, actor)
		if err != nil {
			t.Fatalf("Reminders failed: %v", err)
		}
		if len(reminders) != 1 {
			t.Fatalf("expected 1 reminder, got %d", len(reminders))
		}
		if reminders[0].Payment.ID != "mine-soon" {
			t.Errorf("wrong payment classified: %s", reminders[0].Payment.ID)
		}
	})

	t.Run("Given client actor without client id When Reminders called Then ValidationError", func(t *testing.T) {
		store := NewMockPaymentStore()
		soon := time.Now().AddDate(0, 0, 3)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusPending, 100, &soon, time.Now())
		svc := newTestService(store, NewMockClientStore(), NewMockTaskStore(), NewMockNotificationStore(), nil)

		actor := domain.Actor{UserID: "u1", Role: domain.RoleClient}
		_, err := svc.Reminders(ctx, actor)

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for unscoped client actor, got %v", err)
		}
	})

	t.Run("Given payments across clients When admin requests reminders Then all visible", func(t *testing.T) {
		store := NewMockPaymentStore()
		soon := time.Now().AddDate(0, 0, 2)
		seedPayment(store, "p1", "client-1", domain.PaymentStatusInvoiced, 100, &soon, time.Now())
		seedPayment(store, "p2", "client-2", domain.PaymentStatusInvoiced, 100, &soon, time.Now())
		svc := newTestService(store, NewMockClientStore(), NewMockTaskStore(), NewMockNotificationStore(), nil)

		reminders, err := svc.Reminders(ctx, admin)
		if err != nil {
			t.Fatalf("Reminders failed: %v", err)
		}
		if len(reminders) != 2 {
			t.Fatalf("expected 2 reminders, got %d", len(reminders))
		}
	})
}
