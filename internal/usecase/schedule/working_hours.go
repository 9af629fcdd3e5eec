package schedule

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

var errStaffNotFound = httperr.ErrNotFound("staff_not_found", "Staff not found.")

type WorkingHours struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewWorkingHours(repo domain.Repository, audit *audit.Dispatcher) *WorkingHours {
	return &WorkingHours{repo: repo, audit: audit}
}

func (uc *WorkingHours) ensureStaff(ctx context.Context, staffID uint) error {
	ok, err := uc.repo.StaffExists(ctx, staffID)
	if err != nil {
		return err
	}
	if !ok {
		return errStaffNotFound
	}
	return nil
}

func (uc *WorkingHours) Get(ctx context.Context, staffID uint) ([]models.WorkingHours, error) {
	if err := uc.ensureStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return uc.repo.ListWorkingHours(ctx, staffID)
}

// Replace swaps the whole week. Existing appointments are left alone.
func (uc *WorkingHours) Replace(
	ctx context.Context,
	actorID uint,
	staffID uint,
	days []domain.DayRule,
) ([]models.WorkingHours, error) {

	if err := uc.ensureStaff(ctx, staffID); err != nil {
		return nil, err
	}

	rows, err := domain.BuildWeek(staffID, days)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, staffID, rows); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   audit.ActionWorkingHoursReplaced,
		Entity:   audit.EntityStaff,
		EntityID: &staffID,
		Metadata: map[string]any{"days": len(rows)},
	})

	return uc.repo.ListWorkingHours(ctx, staffID)
}
