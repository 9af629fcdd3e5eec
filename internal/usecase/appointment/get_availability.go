package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

type GetAvailability struct {
	Deps
}

func NewGetAvailability(d Deps) *GetAvailability {
	return &GetAvailability{Deps: d}
}

// Execute is advisory. Every booking transition re-checks its slot.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	day, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Date must be YYYY-MM-DD.")
	}

	today, now := wallclock.Today(uc.Clock.Now())
	if wallclock.CompareDates(in.Date, today) < 0 {
		return []domain.TimeSlot{}, nil
	}

	svc, err := uc.Repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFoundAs(err, errServiceNotFound)
	}
	if svc.DurationMinutes <= 0 {
		return nil, httperr.ErrValidation("invalid_duration", "Service duration must be positive.")
	}

	staff, err := uc.Repo.GetStaff(ctx, in.StaffID)
	if err != nil {
		return nil, notFoundAs(err, errStaffNotFound)
	}
	if !staff.Active {
		return nil, errStaffNotFound
	}
	if !staff.CanPerform(svc.ID) {
		return []domain.TimeSlot{}, nil
	}

	rule, err := uc.Repo.GetWorkingHours(ctx, staff.ID, wallclock.Weekday(day))
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return []domain.TimeSlot{}, nil
	}

	timeOff, err := uc.Repo.ListTimeOffForDate(ctx, staff.ID, in.Date)
	if err != nil {
		return nil, err
	}

	busy, err := uc.Repo.ListBlockingAppointments(ctx, staff.ID, in.Date, 0)
	if err != nil {
		return nil, err
	}

	return domain.ComputeSlots(domain.SlotQuery{
		Date:            in.Date,
		Today:           today,
		Now:             now,
		Rule:            rule,
		TimeOff:         timeOff,
		Busy:            busy,
		DurationMinutes: svc.DurationMinutes,
		StepMinutes:     uc.slotMinutes(),
	}), nil
}
