package service

import (
	"context"
	"fmt"
	"time"

	"agencydesk/internal/domain"
)

// ClientCounter exposes the client-table aggregate used by the dashboard.
type ClientCounter interface {
	Count(ctx context.Context) (int64, error)
}

// TaskCounter splits tasks into active and completed, optionally per client.
type TaskCounter interface {
	CountByCompletion(ctx context.Context, clientID string) (active, completed int64, err error)
}

// PaymentCounter counts live payments by status set, optionally per client.
type PaymentCounter interface {
	CountByStatuses(ctx context.Context, clientID string, statuses []string) (int64, error)
}

// DashboardStats is the summary card payload. TotalClients is admin-only and
// omitted from client responses.
type DashboardStats struct {
	TotalClients    *int64 `json:"total_clients,omitempty"`
	ActiveTasks     int64  `json:"active_tasks"`
	CompletedTasks  int64  `json:"completed_tasks"`
	PendingPayments int64  `json:"pending_payments"`
}

type DashboardService struct {
	clients  ClientCounter
	tasks    TaskCounter
	payments PaymentCounter
	timeout  time.Duration
}

func NewDashboardService(clients ClientCounter, tasks TaskCounter, payments PaymentCounter, storeTimeout time.Duration) *DashboardService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &DashboardService{clients: clients, tasks: tasks, payments: payments, timeout: storeTimeout}
}

// pendingStatuses are the payment states still awaiting money.
var pendingStatuses = []string{
	domain.PaymentStatusDue,
	domain.PaymentStatusInvoiced,
	domain.PaymentStatusPending,
	domain.PaymentStatusOverdue,
}

// Stats computes the role-scoped summary: admins see agency-wide totals
// including the client count, client actors see only their own slice.
func (s *DashboardService) Stats(ctx context.Context, actor domain.Actor) (*DashboardStats, error) {
	scope := ""
	if actor.IsClient() {
		if actor.ClientID == "" {
			return nil, domain.Invalid("client_id", "client actor has no client scope")
		}
		scope = actor.ClientID
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var stats DashboardStats
	active, completed, err := s.tasks.CountByCompletion(cctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	stats.ActiveTasks, stats.CompletedTasks = active, completed

	pending, err := s.payments.CountByStatuses(cctx, scope, pendingStatuses)
	if err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	stats.PendingPayments = pending

	if actor.IsAdmin() {
		total, err := s.clients.Count(cctx)
		if err != nil {
			return nil, fmt.Errorf("count clients: %w", err)
		}
		stats.TotalClients = &total
	}
	return &stats, nil
}
