package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStore is the persistence surface of the payment lifecycle.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	SoftDelete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, q repository.ListQuery) ([]models.Payment, int64, error)
	ListForReminders(ctx context.Context, clientID string) ([]models.Payment, error)
}

type ClientStore interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
}

type TaskStore interface {
	GetByID(ctx context.Context, id string) (*models.Task, error)
}

// FeedPublisher pushes authoritative payment changes to the live change feed.
// Nil disables the feed.
type FeedPublisher interface {
	PublishPayment(p *models.Payment)
}

type PaymentService struct {
	payments PaymentStore
	clients  ClientStore
	tasks    TaskStore
	notif    *NotificationService
	feed     FeedPublisher
	guard    *inflightGuard
	timeout  time.Duration
}

func NewPaymentService(payments PaymentStore, clients ClientStore, tasks TaskStore, notif *NotificationService, feed FeedPublisher, storeTimeout time.Duration) *PaymentService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &PaymentService{
		payments: payments,
		clients:  clients,
		tasks:    tasks,
		notif:    notif,
		feed:     feed,
		guard:    newInflightGuard(),
		timeout:  storeTimeout,
	}
}

// storeErr translates storage failures into the domain taxonomy.
func storeErr(op, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &domain.NotFoundError{Resource: "payment", ID: id}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.TimeoutError{Op: op}
	default:
		return err
	}
}

func (s *PaymentService) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

type CreatePaymentInput struct {
	ClientID      string     `json:"client_id"`
	TaskID        string     `json:"task_id"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"due_date"`
	InvoiceNumber string     `json:"invoice_number"`
	Notes         string     `json:"notes"`
}

// Create validates and records a new payment, then fans a "New Payment
// Recorded" notification out to the client. Validation happens before any
// I/O. A fanout failure is degraded success: the payment is returned along
// with a NotificationDeliveryError.
func (s *PaymentService) Create(ctx context.Context, actor domain.Actor, in CreatePaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, domain.Invalid("amount", "must be positive")
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, domain.Invalid("client_id", "is required")
	}
	if strings.TrimSpace(in.TaskID) == "" {
		return nil, domain.Invalid("task_id", "is required")
	}
	if in.Status == "" {
		in.Status = domain.PaymentStatusDue
	}
	if !domain.ValidPaymentStatus(in.Status) {
		return nil, domain.Invalid("status", "unknown status "+in.Status)
	}

	now := time.Now()
	p := &models.Payment{
		ID:            uuid.New().String(),
		ClientID:      in.ClientID,
		TaskID:        in.TaskID,
		Amount:        in.Amount,
		Status:        in.Status,
		DueDate:       in.DueDate,
		InvoiceNumber: in.InvoiceNumber,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stampStatusTimes(p, "", in.Status, now)

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.payments.Create(cctx, p); err != nil {
		return nil, storeErr("create payment", p.ID, err)
	}
	s.publish(p)

	nctx, ncancel := s.bounded(ctx)
	defer ncancel()
	err := s.notif.NotifyPaymentRecorded(nctx, actor, p.ClientID, s.taskTitle(nctx, p.TaskID), p.Amount)
	return p, degraded("payment create", err)
}

type UpdatePaymentInput struct {
	Amount        *float64   `json:"amount"`
	Status        *string    `json:"status"`
	DueDate       *time.Time `json:"due_date"`
	InvoiceNumber *string    `json:"invoice_number"`
	Notes         *string    `json:"notes"`
}

// Update merges the supplied fields into a non-deleted payment. client_id and
// task_id are immutable and deliberately absent from the input. received and
// canceled are terminal: requests to leave them are rejected.
func (s *PaymentService) Update(ctx context.Context, actor domain.Actor, id string, in UpdatePaymentInput) (*models.Payment, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, domain.Invalid("amount", "must be positive")
	}
	if in.Status != nil && !domain.ValidPaymentStatus(*in.Status) {
		return nil, domain.Invalid("status", "unknown status "+*in.Status)
	}
	if !s.guard.acquire(id) {
		return nil, domain.ErrMutationInFlight
	}
	defer s.guard.release(id)

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	p, err := s.payments.GetByID(cctx, id)
	if err != nil {
		return nil, storeErr("fetch payment", id, err)
	}

	now := time.Now()
	prev := p.Status
	if in.Status != nil && *in.Status != prev {
		if domain.TerminalPaymentStatus(prev) {
			return nil, domain.Invalid("status", prev+" payments cannot be reopened")
		}
		p.Status = *in.Status
		stampStatusTimes(p, prev, p.Status, now)
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	if in.InvoiceNumber != nil {
		p.InvoiceNumber = *in.InvoiceNumber
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	p.UpdatedAt = now

	uctx, ucancel := s.bounded(ctx)
	defer ucancel()
	if err := s.payments.Update(uctx, p); err != nil {
		return nil, storeErr("update payment", id, err)
	}
	s.publish(p)

	nctx, ncancel := s.bounded(ctx)
	defer ncancel()
	nerr := s.notif.NotifyPaymentUpdated(nctx, actor, p.ClientID, s.taskTitle(nctx, p.TaskID))
	return p, degraded("payment update", nerr)
}

type MarkPaidInput struct {
	TransactionID    string
	DocumentType     string // pdf | image; empty when no document attached
	DocumentFilename string
	DocumentURL      string
}

// ValidateMarkPaidInput is the pre-I/O gate for MarkPaid. Callers run it
// before uploading the attached document anywhere.
func ValidateMarkPaidInput(in MarkPaidInput) error {
	if strings.TrimSpace(in.TransactionID) == "" {
		return domain.Invalid("transaction_id", "is required")
	}
	if in.DocumentType == "" {
		return nil
	}
	if in.DocumentType != domain.DocumentTypePDF && in.DocumentType != domain.DocumentTypeImage {
		return domain.Invalid("document_type", "unknown document type "+in.DocumentType)
	}
	if in.DocumentFilename == "" {
		return nil
	}
	ext := strings.ToLower(strings.TrimPrefix(extension(in.DocumentFilename), "."))
	if in.DocumentType == domain.DocumentTypePDF {
		if ext != "pdf" {
			return &domain.DocumentTypeMismatchError{DocumentType: in.DocumentType, Filename: in.DocumentFilename}
		}
		return nil
	}
	for _, ok := range domain.ImageExtensions {
		if ext == ok {
			return nil
		}
	}
	return &domain.DocumentTypeMismatchError{DocumentType: in.DocumentType, Filename: in.DocumentFilename}
}

func extension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}

type MarkPaidResult struct {
	Payment    *models.Payment `json:"payment"`
	ClientName string          `json:"client_name"`
	TaskTitle  string          `json:"task_title"`
}

// MarkPaid settles a payment: status becomes received, received_at is
// stamped, transaction and document metadata are attached, and the admin is
// notified. The client and task names are re-fetched for messaging.
func (s *PaymentService) MarkPaid(ctx context.Context, actor domain.Actor, id string, in MarkPaidInput) (*MarkPaidResult, error) {
	if err := ValidateMarkPaidInput(in); err != nil {
		return nil, err
	}
	if !s.guard.acquire(id) {
		return nil, domain.ErrMutationInFlight
	}
	defer s.guard.release(id)

	cctx, cancel := s.bounded(ctx)
	defer cancel()
	p, err := s.payments.GetByID(cctx, id)
	if err != nil {
		return nil, storeErr("fetch payment", id, err)
	}
	if actor.IsClient() && p.ClientID != actor.ClientID {
		return nil, &domain.NotFoundError{Resource: "payment", ID: id}
	}
	if domain.TerminalPaymentStatus(p.Status) {
		return nil, domain.Invalid("status", "payment is already "+p.Status)
	}

	now := time.Now()
	prev := p.Status
	p.Status = domain.PaymentStatusReceived
	stampStatusTimes(p, prev, p.Status, now)
	p.TransactionID = strings.TrimSpace(in.TransactionID)
	p.DocumentType = in.DocumentType
	p.DocumentURL = in.DocumentURL
	p.UpdatedAt = now

	uctx, ucancel := s.bounded(ctx)
	defer ucancel()
	if err := s.payments.Update(uctx, p); err != nil {
		return nil, storeErr("mark payment paid", id, err)
	}
	s.publish(p)

	nctx, ncancel := s.bounded(ctx)
	defer ncancel()
	res := &MarkPaidResult{
		Payment:    p,
		ClientName: s.clientName(nctx, p.ClientID),
		TaskTitle:  s.taskTitle(nctx, p.TaskID),
	}
	nerr := s.notif.NotifyPaymentReceived(nctx, actor, res.ClientName, res.TaskTitle)
	return res, degraded("mark paid", nerr)
}

// SoftDelete flags a payment deleted. Deleting an already-deleted payment is
// a no-op; deleting an unknown id is NotFoundError.
func (s *PaymentService) SoftDelete(ctx context.Context, actor domain.Actor, id string) error {
	if !s.guard.acquire(id) {
		return domain.ErrMutationInFlight
	}
	defer s.guard.release(id)

	// Fetch first so the feed event carries the owning client id; an
	// already-deleted payment yields no event.
	cctx, cancel := s.bounded(ctx)
	defer cancel()
	p, ferr := s.payments.GetByID(cctx, id)
	if ferr != nil && !errors.Is(ferr, gorm.ErrRecordNotFound) {
		return storeErr("fetch payment", id, ferr)
	}

	dctx, dcancel := s.bounded(ctx)
	defer dcancel()
	found, err := s.payments.SoftDelete(dctx, id)
	if err != nil {
		return storeErr("delete payment", id, err)
	}
	if !found {
		return &domain.NotFoundError{Resource: "payment", ID: id}
	}
	if s.feed != nil && p != nil {
		p.IsDeleted = true
		p.UpdatedAt = time.Now()
		s.feed.PublishPayment(p)
	}
	return nil
}

// Filter is the ephemeral, per-request list predicate. An empty status set
// means the full six-status universe, for clients as much as for admins.
type Filter struct {
	Statuses []string
	ClientID string
	DueStart *time.Time
	DueEnd   *time.Time
}

type Page struct {
	Items    []models.Payment `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List builds the role-scoped, filtered, paginated read model. A client is
// hard-scoped to its own client id no matter what the filter says.
func (s *PaymentService) List(ctx context.Context, actor domain.Actor, f Filter, page, pageSize int) (*Page, error) {
	for _, st := range f.Statuses {
		if !domain.ValidPaymentStatus(st) {
			return nil, domain.Invalid("status", "unknown status "+st)
		}
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	clientID := f.ClientID
	if actor.IsClient() {
		if actor.ClientID == "" {
			return nil, domain.Invalid("client_id", "client actor has no client scope")
		}
		clientID = actor.ClientID
	}
	q := repository.ListQuery{
		ClientID: clientID,
		Statuses: f.Statuses,
		DueStart: f.DueStart,
		DueEnd:   f.DueEnd,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()
	items, total, err := s.payments.List(cctx, q)
	if err != nil {
		return nil, storeErr("list payments", "", err)
	}
	return &Page{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Reminders recomputes the reminder classification for the actor's visible
// payments. Admins see every client's reminders.
func (s *PaymentService) Reminders(ctx context.Context, actor domain.Actor) ([]Reminder, error) {
	clientID := ""
	if actor.IsClient() {
		if actor.ClientID == "" {
			return nil, domain.Invalid("client_id", "client actor has no client scope")
		}
		clientID = actor.ClientID
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()
	payments, err := s.payments.ListForReminders(cctx, clientID)
	if err != nil {
		return nil, storeErr("list reminders", "", err)
	}
	now := time.Now()
	var out []Reminder
	for i := range payments {
		kind, days := ClassifyReminder(&payments[i], now)
		if kind == ReminderNone {
			continue
		}
		out = append(out, Reminder{Payment: payments[i], Kind: kind, DaysUntilDue: days})
	}
	return out, nil
}

// stampStatusTimes sets the entry timestamps for statuses that carry one,
// leaving earlier stamps untouched.
func stampStatusTimes(p *models.Payment, prev, next string, now time.Time) {
	if next == prev {
		return
	}
	switch next {
	case domain.PaymentStatusInvoiced:
		if p.InvoicedAt == nil {
			p.InvoicedAt = &now
		}
	case domain.PaymentStatusReceived:
		if p.ReceivedAt == nil {
			p.ReceivedAt = &now
		}
	}
}

func (s *PaymentService) publish(p *models.Payment) {
	if s.feed != nil {
		s.feed.PublishPayment(p)
	}
}

// taskTitle fetches the task name for notification text, with a neutral
// fallback when the lookup fails.
func (s *PaymentService) taskTitle(ctx context.Context, taskID string) string {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil || t == nil {
		return "Unknown Task"
	}
	return t.Title
}

func (s *PaymentService) clientName(ctx context.Context, clientID string) string {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil || c == nil {
		return "Unknown Client"
	}
	return c.Name
}
