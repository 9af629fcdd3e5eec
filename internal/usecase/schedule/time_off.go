package schedule

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type TimeOff struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewTimeOff(repo domain.Repository, audit *audit.Dispatcher) *TimeOff {
	return &TimeOff{repo: repo, audit: audit}
}

func (uc *TimeOff) ensureStaff(ctx context.Context, staffID uint) error {
	ok, err := uc.repo.StaffExists(ctx, staffID)
	if err != nil {
		return err
	}
	if !ok {
		return errStaffNotFound
	}
	return nil
}

func (uc *TimeOff) List(ctx context.Context, staffID uint) ([]models.TimeOff, error) {
	if err := uc.ensureStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return uc.repo.ListTimeOff(ctx, staffID)
}

// Create records leave. Appointments already booked inside it are kept and
// left for the operator to resolve.
func (uc *TimeOff) Create(
	ctx context.Context,
	actorID uint,
	staffID uint,
	in domain.TimeOffInput,
) (*models.TimeOff, error) {

	if err := uc.ensureStaff(ctx, staffID); err != nil {
		return nil, err
	}

	t, err := domain.NewTimeOff(staffID, in)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateTimeOff(ctx, t); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   audit.ActionTimeOffCreated,
		Entity:   audit.EntityStaff,
		EntityID: &staffID,
		Metadata: map[string]any{
			"time_off_id": t.ID,
			"start_date":  t.StartDate,
			"end_date":    t.EndDate,
		},
	})

	return t, nil
}

func (uc *TimeOff) Delete(
	ctx context.Context,
	actorID uint,
	staffID uint,
	timeOffID uint,
) error {

	ok, err := uc.repo.DeleteTimeOff(ctx, staffID, timeOffID)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrNotFound("time_off_not_found", "Time off not found.")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   audit.ActionTimeOffDeleted,
		Entity:   audit.EntityStaff,
		EntityID: &staffID,
		Metadata: map[string]any{"time_off_id": timeOffID},
	})

	return nil
}
