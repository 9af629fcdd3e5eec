package models

import (
	"slices"
	"time"
)

type Staff struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:80;not null" json:"name"`
	Active bool   `gorm:"default:true;index" json:"active"`

	// ServiceIDs is resolved from staff_services by the repositories.
	ServiceIDs []uint `gorm:"-" json:"service_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Staff) CanPerform(serviceID uint) bool {
	return slices.Contains(s.ServiceIDs, serviceID)
}

// StaffService is the single normalized staff -> service relation.
type StaffService struct {
	StaffID   uint `gorm:"primaryKey;autoIncrement:false" json:"staff_id"`
	ServiceID uint `gorm:"primaryKey;autoIncrement:false;index" json:"service_id"`
}
