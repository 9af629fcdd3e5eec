package schedule

import "github.com/BruksfildServices01/service-scheduler/internal/models"

type BoardInput struct {
	Date     string
	StaffIDs []uint
}

type WorkingWindow struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type StaffRow struct {
	Staff        models.Staff         `json:"staff"`
	WorkingHours *WorkingWindow       `json:"working_hours"`
	TimeOff      []models.TimeOff     `json:"time_off"`
	Appointments []models.Appointment `json:"appointments"`
}

type Board struct {
	Date    string               `json:"date"`
	Weekday int                  `json:"weekday"`
	Staff   []StaffRow           `json:"staff"`
	Pending []models.Appointment `json:"pending"`
}
