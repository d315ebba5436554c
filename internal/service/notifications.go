package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"

	"github.com/google/uuid"
)

// NotificationStore is the persistence surface the fanout needs.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Pusher delivers a stored notification to connected receivers. Implemented
// by the WebSocket hub; nil disables push.
type Pusher interface {
	PushNotification(n *models.Notification)
}

type NotificationService struct {
	repo NotificationStore
	push Pusher
}

func NewNotificationService(repo NotificationStore, push Pusher) *NotificationService {
	return &NotificationService{repo: repo, push: push}
}

// Notify stores a notification and pushes it to connected receivers. Push is
// best-effort; only the store write can fail.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.push != nil {
		s.push.PushNotification(n)
	}
	return nil
}

func (s *NotificationService) NotifyPaymentRecorded(ctx context.Context, actor domain.Actor, clientID, taskTitle string, amount float64) error {
	return s.Notify(ctx, &models.Notification{
		ReceiverRole: domain.RoleClient,
		ReceiverID:   clientID,
		SenderRole:   actor.Role,
		TriggeredBy:  actor.UserID,
		Type:         domain.NotificationTypePayment,
		Title:        "New Payment Recorded",
		Message:      fmt.Sprintf("A new payment of $%.2f has been recorded for task %q.", amount, taskTitle),
	})
}

func (s *NotificationService) NotifyPaymentUpdated(ctx context.Context, actor domain.Actor, clientID, taskTitle string) error {
	return s.Notify(ctx, &models.Notification{
		ReceiverRole: domain.RoleClient,
		ReceiverID:   clientID,
		SenderRole:   actor.Role,
		TriggeredBy:  actor.UserID,
		Type:         domain.NotificationTypePayment,
		Title:        "Payment Updated",
		Message:      fmt.Sprintf("A payment for task %q has been updated.", taskTitle),
	})
}

func (s *NotificationService) NotifyPaymentReceived(ctx context.Context, actor domain.Actor, clientName, taskTitle string) error {
	return s.Notify(ctx, &models.Notification{
		ReceiverRole: domain.RoleAdmin,
		SenderRole:   actor.Role,
		TriggeredBy:  actor.UserID,
		Type:         domain.NotificationTypePayment,
		Title:        "Payment Received",
		Message:      fmt.Sprintf("Payment received from %s for task %q.", clientName, taskTitle),
	})
}

func (s *NotificationService) NotifyTaskCreated(ctx context.Context, actor domain.Actor, clientID, taskTitle string) error {
	return s.Notify(ctx, &models.Notification{
		ReceiverRole: domain.RoleClient,
		ReceiverID:   clientID,
		SenderRole:   actor.Role,
		TriggeredBy:  actor.UserID,
		Type:         domain.NotificationTypeTask,
		Title:        "New Task Created",
		Message:      fmt.Sprintf("A new task %q has been created for you.", taskTitle),
	})
}

func (s *NotificationService) NotifyTaskCompleted(ctx context.Context, actor domain.Actor, clientID, taskTitle string) error {
	return s.Notify(ctx, &models.Notification{
		ReceiverRole: domain.RoleClient,
		ReceiverID:   clientID,
		SenderRole:   actor.Role,
		TriggeredBy:  actor.UserID,
		Type:         domain.NotificationTypeTask,
		Title:        "Task Completed",
		Message:      fmt.Sprintf("Task %q has been marked complete.", taskTitle),
	})
}

func (s *NotificationService) NotifyClientCreated(ctx context.Context, actor domain.Actor, clientName string) error {
	return s.Notify(ctx, &models.Notification{
		ReceiverRole: domain.RoleAdmin,
		SenderRole:   actor.Role,
		TriggeredBy:  actor.UserID,
		Type:         domain.NotificationTypeClient,
		Title:        "New Client Added",
		Message:      fmt.Sprintf("Client %q has been added.", clientName),
	})
}

// degraded wraps a fanout failure so the caller can report the primary
// mutation as successful while still surfacing the miss.
func degraded(op string, err error) error {
	if err == nil {
		return nil
	}
	log.Printf("[Notify] %s fanout failed: %v", op, err)
	return &domain.NotificationDeliveryError{Err: err}
}
