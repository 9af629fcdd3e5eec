package notification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Save(ctx context.Context, userID uint, ev Event) error {
	n := models.Notification{
		UserID:  userID,
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
	}
	if ev.AppointmentID != 0 {
		id := ev.AppointmentID
		n.AppointmentID = &id
	}
	return s.db.WithContext(ctx).Create(&n).Error
}

func (s *GormStore) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > MaxInboxItems {
		limit = MaxInboxItems
	}
	var out []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

var _ Inbox = (*GormStore)(nil)

// MarkRead only touches the caller's own notification.
func (s *GormStore) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n.IsRead = true
	if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *GormStore) MarkAllRead(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
