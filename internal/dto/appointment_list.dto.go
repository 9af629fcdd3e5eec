package dto

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID uint `json:"id"`

	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`

	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	StaffID     uint   `json:"staff_id"`
	StaffName   string `json:"staff_name"`
	ServiceID   uint   `json:"service_id"`
	ServiceName string `json:"service_name"`

	DeclineReason string           `json:"decline_reason,omitempty"`
	ClientNote    string           `json:"client_note,omitempty"`
	Proposed      *models.Proposal `json:"proposed,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:            ap.ID,
		Date:          ap.Date,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Status:        ap.Status,
		ClientID:      ap.ClientID,
		ClientName:    ap.Client.Name,
		StaffID:       ap.StaffID,
		StaffName:     ap.Staff.Name,
		ServiceID:     ap.ServiceID,
		ServiceName:   ap.Service.Name,
		DeclineReason: ap.DeclineReason,
		ClientNote:    ap.ClientNote,
		Proposed:      ap.Proposed,
		CreatedAt:     ap.CreatedAt,
	}
}

func NewAppointmentList(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAppointmentListDTO(ap))
	}
	return out
}
