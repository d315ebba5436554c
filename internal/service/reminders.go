package service

import (
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"
)

type ReminderKind string

const (
	ReminderNone     ReminderKind = ""
	ReminderUpcoming ReminderKind = "upcoming"
	ReminderOverdue  ReminderKind = "overdue-alert"
)

// Reminder is a read-time projection; it is recomputed on every query and
// never persisted.
type Reminder struct {
	Payment      models.Payment `json:"payment"`
	Kind         ReminderKind   `json:"kind"`
	DaysUntilDue int            `json:"days_until_due"`
}

// daysUntil returns the whole calendar days from now's date to due's date,
// negative when due is in the past. Time-of-day is truncated on both sides so
// there is no partial-day rounding ambiguity.
func daysUntil(now, due time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ClassifyReminder decides if p deserves a reminder at the given instant.
// "upcoming": pending or invoiced with a due date 10 or fewer calendar days
// out, already-past dates included. "overdue-alert": overdue with the due
// date strictly in the past. Soft-deleted payments never classify.
func ClassifyReminder(p *models.Payment, now time.Time) (ReminderKind, int) {
	if p.IsDeleted || p.DueDate == nil {
		return ReminderNone, 0
	}
	days := daysUntil(now, *p.DueDate)
	switch p.Status {
	case domain.PaymentStatusPending, domain.PaymentStatusInvoiced:
		if days <= 10 {
			return ReminderUpcoming, days
		}
	case domain.PaymentStatusOverdue:
		if days < 0 {
			return ReminderOverdue, days
		}
	}
	return ReminderNone, days
}
