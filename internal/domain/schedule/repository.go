package schedule

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type Repository interface {
	// -------- Board (read only) --------
	ListActiveStaff(ctx context.Context, ids []uint) ([]models.Staff, error)
	ListWorkingHoursForWeekday(ctx context.Context, staffIDs []uint, weekday int) ([]models.WorkingHours, error)
	ListTimeOffCovering(ctx context.Context, staffIDs []uint, date string) ([]models.TimeOff, error)
	ListAppointmentsForDate(ctx context.Context, staffIDs []uint, date string, statuses []string) ([]models.Appointment, error)
	ListPendingForDate(ctx context.Context, date string) ([]models.Appointment, error)

	// -------- Working hours --------
	StaffExists(ctx context.Context, staffID uint) (bool, error)
	ListWorkingHours(ctx context.Context, staffID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, staffID uint, rows []models.WorkingHours) error

	// -------- Time off --------
	ListTimeOff(ctx context.Context, staffID uint) ([]models.TimeOff, error)
	CreateTimeOff(ctx context.Context, t *models.TimeOff) error
	// DeleteTimeOff reports false when no entry matched.
	DeleteTimeOff(ctx context.Context, staffID, timeOffID uint) (bool, error)
}
