package notification

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

var ErrNotFound = errors.New("notification not found")

const MaxInboxItems = 100

// Inbox is the read side of stored notifications.
type Inbox interface {
	ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) error
}

// MemoryStore keeps notifications in process. It is a Store and an Inbox.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []models.Notification
	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, userID uint, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	n := models.Notification{
		ID:        s.nextID,
		UserID:    userID,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		CreatedAt: time.Now(),
	}
	n.UpdatedAt = n.CreatedAt
	if ev.AppointmentID != 0 {
		id := ev.AppointmentID
		n.AppointmentID = &id
	}
	s.items = append(s.items, n)
	return nil
}

func (s *MemoryStore) ListForUser(_ context.Context, userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > MaxInboxItems {
		limit = MaxInboxItems
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Notification{}
	for _, n := range s.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b models.Notification) int {
		return cmp.Compare(b.ID, a.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, userID, id uint) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			s.items[i].IsRead = true
			n := s.items[i]
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) MarkAllRead(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].UserID == userID {
			s.items[i].IsRead = true
		}
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Inbox = (*MemoryStore)(nil)
)
