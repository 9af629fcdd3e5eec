package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Board
// --------------------------------------------------

func (r *ScheduleGormRepository) ListActiveStaff(
	ctx context.Context,
	ids []uint,
) ([]models.Staff, error) {

	q := r.db.WithContext(ctx).Where("active = ?", true)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	var staff []models.Staff
	if err := q.Order("name ASC, id ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return staff, nil
	}

	staffIDs := make([]uint, len(staff))
	for i, s := range staff {
		staffIDs[i] = s.ID
	}

	var links []models.StaffService
	if err := r.db.WithContext(ctx).
		Where("staff_id IN ?", staffIDs).
		Order("service_id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}

	byStaff := make(map[uint][]uint, len(staff))
	for _, l := range links {
		byStaff[l.StaffID] = append(byStaff[l.StaffID], l.ServiceID)
	}
	for i := range staff {
		staff[i].ServiceIDs = byStaff[staff[i].ID]
	}

	return staff, nil
}

func (r *ScheduleGormRepository) ListWorkingHoursForWeekday(
	ctx context.Context,
	staffIDs []uint,
	weekday int,
) ([]models.WorkingHours, error) {

	var out []models.WorkingHours
	if len(staffIDs) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Where("staff_id IN ? AND weekday = ?", staffIDs, weekday).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) ListTimeOffCovering(
	ctx context.Context,
	staffIDs []uint,
	date string,
) ([]models.TimeOff, error) {

	var out []models.TimeOff
	if len(staffIDs) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Where("staff_id IN ? AND start_date <= ? AND end_date >= ?", staffIDs, date, date).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForDate(
	ctx context.Context,
	staffIDs []uint,
	date string,
	statuses []string,
) ([]models.Appointment, error) {

	var out []models.Appointment
	if len(staffIDs) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("staff_id IN ? AND date = ? AND status IN ?", staffIDs, date, statuses).
		Order("start_minute ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) ListPendingForDate(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {

	var out []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		Where("date = ? AND status = ?", date, string(domain.StatusPendingAdminReview)).
		Order("start_minute ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ScheduleGormRepository) StaffExists(
	ctx context.Context,
	staffID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Staff{}).
		Where("id = ?", staffID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ScheduleGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
) ([]models.WorkingHours, error) {

	var out []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("weekday ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceWorkingHours swaps the whole week in one transaction.
func (r *ScheduleGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	staffID uint,
	rows []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("staff_id = ?", staffID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// --------------------------------------------------
// Time off
// --------------------------------------------------

func (r *ScheduleGormRepository) ListTimeOff(
	ctx context.Context,
	staffID uint,
) ([]models.TimeOff, error) {

	var out []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("start_date ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) CreateTimeOff(
	ctx context.Context,
	t *models.TimeOff,
) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ScheduleGormRepository) DeleteTimeOff(
	ctx context.Context,
	staffID uint,
	timeOffID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND staff_id = ?", timeOffID, staffID).
		Delete(&models.TimeOff{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
