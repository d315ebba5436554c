package models

import (
	"time"
)

// Notification is a directed message about a domain event. Created only as a
// side effect of a payment/task/client mutation; after creation only the Read
// flag ever changes.
type Notification struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ReceiverRole string    `gorm:"size:10;not null;index" json:"receiver_role"` // admin | client
	ReceiverID   string    `gorm:"size:36;index" json:"receiver_id"`            // client id when receiver_role is client
	SenderRole   string    `gorm:"size:10;not null" json:"sender_role"`
	TriggeredBy  string    `gorm:"size:36;not null" json:"triggered_by"` // acting user id
	Type         string    `gorm:"size:20;not null;index" json:"type"`   // payment | task | client
	Title        string    `gorm:"size:255;not null" json:"title"`
	Message      string    `gorm:"type:text" json:"message"`
	Read         bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
