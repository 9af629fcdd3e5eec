package models

import "time"

type Notification struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_notifications_user_created" json:"user_id"`

	Type          string `gorm:"size:40;not null" json:"type"`
	Title         string `gorm:"size:120;not null" json:"title"`
	Message       string `gorm:"type:text" json:"message"`
	AppointmentID *uint  `json:"appointment_id"`
	IsRead        bool   `gorm:"default:false;index" json:"is_read"`

	CreatedAt time.Time `gorm:"index:idx_notifications_user_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
