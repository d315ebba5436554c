package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"gorm.io/gorm"
)

// Common test errors
var (
	ErrMockStore  = errors.New("mock store error")
	ErrMockNotify = errors.New("mock notification error")
)

// MockPaymentStore implements PaymentStore over an in-memory map.
type MockPaymentStore struct {
	mu       sync.Mutex
	Payments map[string]*models.Payment

	CreateErr error
	GetErr    error
	UpdateErr error
	ListErr   error

	UpdateCalls int
}

func NewMockPaymentStore() *MockPaymentStore {
	return &MockPaymentStore{Payments: make(map[string]*models.Payment)}
}

func (m *MockPaymentStore) Create(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *p
	m.Payments[p.ID] = &cp
	return nil
}

func (m *MockPaymentStore) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.Payments[id]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentStore) Update(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *p
	m.Payments[p.ID] = &cp
	return nil
}

func (m *MockPaymentStore) SoftDelete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Payments[id]
	if !ok {
		return false, nil
	}
	p.IsDeleted = true
	return true, nil
}

func (m *MockPaymentStore) List(ctx context.Context, q repository.ListQuery) ([]models.Payment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}
	var all []models.Payment
	for _, p := range m.Payments {
		if p.IsDeleted {
			continue
		}
		if q.ClientID != "" && p.ClientID != q.ClientID {
			continue
		}
		if len(q.Statuses) > 0 && !contains(q.Statuses, p.Status) {
			continue
		}
		if q.DueStart != nil && (p.DueDate == nil || p.DueDate.Before(*q.DueStart)) {
			continue
		}
		if q.DueEnd != nil && (p.DueDate == nil || p.DueDate.After(*q.DueEnd)) {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := int64(len(all))
	if q.Offset >= len(all) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], total, nil
}

func (m *MockPaymentStore) ListForReminders(ctx context.Context, clientID string) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.Payment
	for _, p := range m.Payments {
		if p.IsDeleted || p.DueDate == nil {
			continue
		}
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockPaymentStore) CountByStatuses(ctx context.Context, clientID string, statuses []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return 0, m.ListErr
	}
	var n int64
	for _, p := range m.Payments {
		if p.IsDeleted {
			continue
		}
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, p.Status) {
			continue
		}
		n++
	}
	return n, nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// MockClientStore implements ClientStore and ClientCounter.
type MockClientStore struct {
	Clients  map[string]*models.Client
	GetErr   error
	CountErr error
}

func NewMockClientStore() *MockClientStore {
	return &MockClientStore{Clients: make(map[string]*models.Client)}
}

func (m *MockClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	c, ok := m.Clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *MockClientStore) Count(ctx context.Context) (int64, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return int64(len(m.Clients)), nil
}

// MockTaskStore implements TaskStore and TaskCounter.
type MockTaskStore struct {
	Tasks  map[string]*models.Task
	GetErr error
}

func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[string]*models.Task)}
}

func (m *MockTaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	t, ok := m.Tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *MockTaskStore) CountByCompletion(ctx context.Context, clientID string) (active, completed int64, err error) {
	if m.GetErr != nil {
		return 0, 0, m.GetErr
	}
	for _, t := range m.Tasks {
		if clientID != "" && t.ClientID != clientID {
			continue
		}
		if t.Status == "complete" {
			completed++
		} else {
			active++
		}
	}
	return active, completed, nil
}

// MockNotificationStore implements NotificationStore and records every write.
type MockNotificationStore struct {
	mu        sync.Mutex
	Created   []*models.Notification
	CreateErr error
}

func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{}
}

func (m *MockNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, n)
	return nil
}

func (m *MockNotificationStore) Last() *models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Created) == 0 {
		return nil
	}
	return m.Created[len(m.Created)-1]
}

// MockFeed records published payment events.
type MockFeed struct {
	mu        sync.Mutex
	Published []*models.Payment
}

func (m *MockFeed) PublishPayment(p *models.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, p)
}

func (m *MockFeed) Last() *models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Published) == 0 {
		return nil
	}
	return m.Published[len(m.Published)-1]
}

func (m *MockFeed) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}
