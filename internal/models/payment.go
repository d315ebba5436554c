package models

import (
	"time"
)

// Payment ties a client and a task to an amount owed and its settlement
// status. Rows are never physically deleted; IsDeleted hides them from every
// read path.
type Payment struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	ClientID      string     `gorm:"size:36;not null;index" json:"client_id"`
	TaskID        string     `gorm:"size:36;not null;index" json:"task_id"`
	Amount        float64    `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status        string     `gorm:"size:20;not null;index" json:"status"` // due, invoiced, pending, received, overdue, canceled
	DueDate       *time.Time `json:"due_date"`
	InvoiceNumber string     `gorm:"size:64" json:"invoice_number"`
	InvoicedAt    *time.Time `json:"invoiced_at"`
	ReceivedAt    *time.Time `json:"received_at"`
	TransactionID string     `gorm:"size:255" json:"transaction_id"`
	DocumentURL   string     `gorm:"size:512" json:"document_url"`
	DocumentType  string     `gorm:"size:10" json:"document_type"` // pdf | image
	Notes         string     `gorm:"type:text" json:"notes"`
	IsDeleted     bool       `gorm:"not null;default:false;index" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Client Client `gorm:"foreignKey:ClientID" json:"-"`
	Task   Task   `gorm:"foreignKey:TaskID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
