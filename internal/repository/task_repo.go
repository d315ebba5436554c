package repository

import (
	"context"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// CountByCompletion splits the task count into active and completed,
// optionally scoped to one client.
func (r *TaskRepository) CountByCompletion(ctx context.Context, clientID string) (active, completed int64, err error) {
	base := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&models.Task{})
		if clientID != "" {
			tx = tx.Where("client_id = ?", clientID)
		}
		return tx
	}
	if err = base().Where("status <> ?", domain.TaskStatusComplete).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	if err = base().Where("status = ?", domain.TaskStatusComplete).Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return active, completed, nil
}

// List returns tasks, optionally scoped to one client.
func (r *TaskRepository) List(ctx context.Context, clientID string, limit, offset int) ([]models.Task, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Task{})
	if clientID != "" {
		tx = tx.Where("client_id = ?", clientID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Task
	err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}
