package models

import "time"

type TimeOff struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"not null;index:idx_time_off_range" json:"staff_id"`

	StartDate string `gorm:"size:10;not null;index:idx_time_off_range" json:"start_date"`
	EndDate   string `gorm:"size:10;not null;index:idx_time_off_range" json:"end_date"`

	// Both nil: the whole day is blocked for every date in range.
	StartTime *string `gorm:"size:5" json:"start_time"`
	EndTime   *string `gorm:"size:5" json:"end_time"`

	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TimeOff) IsFullDay() bool {
	return t.StartTime == nil || t.EndTime == nil
}

func (t *TimeOff) Covers(date string) bool {
	return t.StartDate <= date && date <= t.EndDate
}
