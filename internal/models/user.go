package models

import (
	"time"

	"agencydesk/internal/domain"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Role         string     `gorm:"size:10;not null;index" json:"role"` // admin | client
	ClientID     string     `gorm:"size:36;index" json:"client_id"`     // set when Role is client
	LastLogin    *time.Time `json:"last_login"`

	// In-app notification preferences; all on by default.
	NotifyPayments bool `gorm:"not null;default:true" json:"notify_payments"`
	NotifyTasks    bool `gorm:"not null;default:true" json:"notify_tasks"`
	NotifyClients  bool `gorm:"not null;default:true" json:"notify_clients"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }
func (u *User) IsClient() bool { return u.Role == domain.RoleClient }

// AllowedNotificationTypes maps the user's preferences to the notification
// type filter used when listing.
func (u *User) AllowedNotificationTypes() []string {
	var types []string
	if u.NotifyPayments {
		types = append(types, domain.NotificationTypePayment)
	}
	if u.NotifyTasks {
		types = append(types, domain.NotificationTypeTask)
	}
	if u.NotifyClients {
		types = append(types, domain.NotificationTypeClient)
	}
	return types
}
