package models

import (
	"time"
)

type Client struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone      string    `gorm:"size:32" json:"phone"`
	Address    string    `gorm:"size:512" json:"address"`
	Status     string    `gorm:"size:10;not null;default:'active'" json:"status"` // active | idle | gone
	HasAccount bool      `gorm:"not null;default:false" json:"has_account"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
