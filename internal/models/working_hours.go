package models

import "time"

// WorkingHours is one open interval for a staff member on a weekday
// (Monday=0 .. Sunday=6). A missing row means a day off.
type WorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"not null;uniqueIndex:idx_working_hours_staff_weekday" json:"staff_id"`
	Weekday int  `gorm:"not null;uniqueIndex:idx_working_hours_staff_weekday;check:weekday BETWEEN 0 AND 6" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
