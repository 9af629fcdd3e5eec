package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ErrRecordNotFound is returned by repositories when a lookup by id misses.
var ErrRecordNotFound = errors.New("record not found")

type ListFilter struct {
	ClientID *uint
	StaffID  *uint
	Status   string
	DateFrom string
	DateTo   string
}

type Repository interface {
	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetStaff(ctx context.Context, id uint) (*models.Staff, error)
	ListAdminIDs(ctx context.Context) ([]uint, error)

	// -------- Availability inputs --------

	// GetWorkingHours returns nil, nil when the staff member is off that weekday.
	GetWorkingHours(ctx context.Context, staffID uint, weekday int) (*models.WorkingHours, error)
	ListTimeOffForDate(ctx context.Context, staffID uint, date string) ([]models.TimeOff, error)
	ListBlockingAppointments(ctx context.Context, staffID uint, date string, excludeID uint) ([]models.Appointment, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)

	// -------- Atomicity --------

	// LockSlot serializes writers on (staffID, date) until the surrounding
	// transaction ends.
	LockSlot(ctx context.Context, staffID uint, date string) error
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
