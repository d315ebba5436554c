package models

import (
	"time"
)

type Task struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	ClientID       string     `gorm:"size:36;not null;index" json:"client_id"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         string     `gorm:"size:20;not null;index" json:"status"` // requirements ... complete
	EstimatedHours float64    `json:"estimated_hours"`
	EstimatedCost  float64    `gorm:"type:numeric(12,2)" json:"estimated_cost"`
	ActualHours    *float64   `json:"actual_hours"`
	ActualCost     *float64   `gorm:"type:numeric(12,2)" json:"actual_cost"`
	Project        string     `gorm:"size:255" json:"project"`
	DueDate        *time.Time `json:"due_date"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Client Client `gorm:"foreignKey:ClientID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
