package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"not null;index" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client,omitempty"`

	StaffID uint  `gorm:"not null;index:idx_appointments_staff_date_status" json:"staff_id"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"staff,omitempty"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	Date      string `gorm:"size:10;not null;index:idx_appointments_staff_date_status;index:idx_appointments_date_status" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	// Minute columns back the overlap exclusion constraint.
	StartMinute int `gorm:"not null" json:"-"`
	EndMinute   int `gorm:"not null" json:"-"`

	Status string `gorm:"size:30;not null;default:'PENDING_ADMIN_REVIEW';index:idx_appointments_staff_date_status;index:idx_appointments_date_status" json:"status"`

	DeclineReason string `gorm:"size:300" json:"decline_reason"`
	ClientNote    string `gorm:"size:500" json:"client_note"`
	AdminNote     string `gorm:"size:500" json:"admin_note"`

	Proposed *Proposal `gorm:"type:text;serializer:json" json:"proposed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Proposal is an operator counter-offer. It lives on the appointment only
// while the status is PROPOSED_TO_CLIENT (and after a rejection, for history).
type Proposal struct {
	StaffID   uint   `json:"staff_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Message   string `json:"message"`
}

func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.SyncMinutes()
	return nil
}

// SyncMinutes refreshes the minute columns from StartTime/EndTime.
func (a *Appointment) SyncMinutes() {
	if t, err := wallclock.Parse(a.StartTime); err == nil {
		a.StartMinute = t.Minutes()
	}
	if t, err := wallclock.Parse(a.EndTime); err == nil {
		a.EndMinute = t.Minutes()
	}
}
