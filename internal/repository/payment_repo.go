package repository

import (
	"context"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID returns the payment with the given id, excluding soft-deleted rows.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SoftDelete flags the row deleted without altering its status. Returns false
// when no row (deleted or not) exists for id. Repeating the call on an
// already-deleted row is a no-op.
func (r *PaymentRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByStatuses counts live payments in any of the given statuses,
// optionally scoped to one client.
func (r *PaymentRepository) CountByStatuses(ctx context.Context, clientID string, statuses []string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Payment{}).Where("is_deleted = ?", false)
	if clientID != "" {
		tx = tx.Where("client_id = ?", clientID)
	}
	if len(statuses) > 0 {
		tx = tx.Where("status IN ?", statuses)
	}
	var n int64
	err := tx.Count(&n).Error
	return n, err
}

// ListQuery is the read-model predicate: role scoping is resolved by the
// service before it reaches the repository.
type ListQuery struct {
	ClientID string
	Statuses []string
	DueStart *time.Time
	DueEnd   *time.Time
	Offset   int
	Limit    int
}

// List returns the matching non-deleted page ordered by created_at DESC with
// id as tiebreak, plus the total matching count.
func (r *PaymentRepository) List(ctx context.Context, q ListQuery) ([]models.Payment, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Payment{}).Where("is_deleted = ?", false)
	if q.ClientID != "" {
		tx = tx.Where("client_id = ?", q.ClientID)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", q.Statuses)
	}
	if q.DueStart != nil {
		tx = tx.Where("due_date >= ?", *q.DueStart)
	}
	if q.DueEnd != nil {
		tx = tx.Where("due_date <= ?", *q.DueEnd)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Payment
	err := tx.Order("created_at DESC, id DESC").Offset(q.Offset).Limit(q.Limit).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListForReminders returns the non-deleted payments a reminder classification
// pass should consider, scoped to a client when clientID is set.
func (r *PaymentRepository) ListForReminders(ctx context.Context, clientID string) ([]models.Payment, error) {
	tx := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("due_date IS NOT NULL").
		Where("status IN ?", []string{
			domain.PaymentStatusPending, domain.PaymentStatusInvoiced, domain.PaymentStatusOverdue,
		})
	if clientID != "" {
		tx = tx.Where("client_id = ?", clientID)
	}
	var list []models.Payment
	err := tx.Order("due_date ASC").Find(&list).Error
	return list, err
}

// MarkOverdue flips every unpaid payment whose due date fell before cutoff to
// overdue. Returns the number of rows transitioned.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("is_deleted = ?", false).
		Where("status IN ?", []string{
			domain.PaymentStatusDue, domain.PaymentStatusInvoiced, domain.PaymentStatusPending,
		}).
		Where("due_date < ?", cutoff).
		Updates(map[string]interface{}{"status": domain.PaymentStatusOverdue, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
