package appointment

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
	"github.com/BruksfildServices01/service-scheduler/internal/wallclock"
)

// Deps is shared by every appointment use case.
type Deps struct {
	Repo        domain.Repository
	Locker      lock.Locker
	Clock       timezone.Clock
	Notifier    notification.Notifier
	Audit       *audit.Dispatcher
	SlotMinutes int
}

func (d Deps) slotMinutes() int {
	if d.SlotMinutes <= 0 {
		return domain.DefaultSlotMinutes
	}
	return d.SlotMinutes
}

func (d Deps) notifier() notification.Notifier {
	if d.Notifier == nil {
		return notification.Nop{}
	}
	return d.Notifier
}

// ======================================================
// Errors
// ======================================================

var (
	errAppointmentNotFound = httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	errServiceNotFound     = httperr.ErrNotFound("service_not_found", "Service not found.")
	errStaffNotFound       = httperr.ErrNotFound("staff_not_found", "Staff not found.")

	// create: the client picked a time that is not free
	errSlotTaken = httperr.ErrSlotUnavailable("time_conflict", "This time is not available. Please pick another time.")
	// confirm/propose/accept: someone else claimed it after it was viewed
	errSlotTakenSince = httperr.ErrSlotUnavailable("time_conflict", "The time slot was taken by another booking since it was last viewed.")

	errSlotBusy     = httperr.ErrSlotUnavailable("slot_busy", "Another booking for this staff member and day is in progress. Please try again.")
	errScopeChanged = httperr.ErrInvalidState("appointment_changed", "The appointment changed while it was being updated. Please reload it.")
)

func notFoundAs(err, as error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return as
	}
	return err
}

// ======================================================
// Lookups
// ======================================================

func (d Deps) loadAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := d.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, errAppointmentNotFound)
	}
	return ap, nil
}

func (d Deps) loadActiveService(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := d.Repo.GetService(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, errServiceNotFound)
	}
	if !svc.Active {
		return nil, errServiceNotFound
	}
	return svc, nil
}

// loadCapableStaff returns the staff member only if active and able to
// perform serviceID.
func (d Deps) loadCapableStaff(ctx context.Context, staffID, serviceID uint) (*models.Staff, error) {
	staff, err := d.Repo.GetStaff(ctx, staffID)
	if err != nil {
		return nil, notFoundAs(err, errStaffNotFound)
	}
	if !staff.Active {
		return nil, errStaffNotFound
	}
	if !staff.CanPerform(serviceID) {
		return nil, httperr.ErrValidation("staff_cannot_perform_service", "This staff member does not perform the selected service.")
	}
	return staff, nil
}

func (d Deps) adminIDs(ctx context.Context) []uint {
	ids, err := d.Repo.ListAdminIDs(ctx)
	if err != nil {
		return nil
	}
	return ids
}

// ======================================================
// Slot validation
// ======================================================

// slot is a validated booking window in canonical YYYY-MM-DD / HH:MM form.
type slot struct {
	date  string
	start string
	end   string
}

// resolveSlot checks that [startTime, startTime+duration) on date is in the
// future, inside working hours and clear of time off. It returns the slot in
// canonical form; callers store those values, not the raw input.
// It does not check other appointments; that happens under the scope lock.
func (d Deps) resolveSlot(
	ctx context.Context,
	staffID uint,
	date string,
	startTime string,
	durationMinutes int,
) (slot, error) {

	day, err := wallclock.ParseDate(date)
	if err != nil {
		return slot{}, httperr.ErrValidation("invalid_date", "Date must be YYYY-MM-DD.")
	}
	start, err := wallclock.Parse(startTime)
	if err != nil {
		return slot{}, httperr.ErrValidation("invalid_time", "Start time must be HH:MM.")
	}
	date = day.Format(wallclock.DateLayout)
	if durationMinutes <= 0 {
		return slot{}, httperr.ErrValidation("invalid_duration", "Service duration must be positive.")
	}

	today, now := wallclock.Today(d.Clock.Now())
	switch c := wallclock.CompareDates(date, today); {
	case c < 0:
		return slot{}, httperr.ErrPastDate("past_date", "Cannot book past dates.")
	case c == 0 && start < now:
		return slot{}, httperr.ErrPastDate("past_time", "Cannot book a past time slot.")
	}

	end := start.AddMinutes(durationMinutes)

	rule, err := d.Repo.GetWorkingHours(ctx, staffID, wallclock.Weekday(day))
	if err != nil {
		return slot{}, err
	}
	if !domain.WithinWorkingHours(rule, start, end) {
		return slot{}, httperr.ErrSlotUnavailable("outside_working_hours", "The staff member does not work at this time.")
	}

	timeOff, err := d.Repo.ListTimeOffForDate(ctx, staffID, date)
	if err != nil {
		return slot{}, err
	}
	if domain.BlockedByTimeOff(timeOff, date, start, end) {
		return slot{}, httperr.ErrSlotUnavailable("staff_time_off", "The staff member is off at this time.")
	}

	return slot{date: date, start: start.String(), end: end.String()}, nil
}

// ======================================================
// Atomic scope
// ======================================================

// scope is one (staff, date) pair whose blocking appointments must not
// change while a transition checks and writes.
type scope struct {
	staffID uint
	date    string
}

func (s scope) key() string {
	return lock.SlotKey(s.staffID, s.date)
}

// sortedScopes dedupes and orders scopes by key so that every caller locks
// them in the same order.
func sortedScopes(scopes []scope) []scope {
	out := slices.Clone(scopes)
	slices.SortFunc(out, func(a, b scope) int {
		return strings.Compare(a.key(), b.key())
	})
	return slices.CompactFunc(out, func(a, b scope) bool {
		return a == b
	})
}

// inScope runs fn with the given scopes held: the process/cluster lock
// first, then a transaction holding the database advisory locks.
func (d Deps) inScope(
	ctx context.Context,
	scopes []scope,
	fn func(tx domain.Repository) error,
) error {

	scopes = sortedScopes(scopes)

	for _, s := range scopes {
		unlock, err := d.Locker.Lock(ctx, s.key())
		if err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				return errSlotBusy
			}
			return err
		}
		defer unlock()
	}

	err := d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		for _, s := range scopes {
			if err := tx.LockSlot(ctx, s.staffID, s.date); err != nil {
				return err
			}
		}
		return fn(tx)
	})
	if httperr.IsExclusionConflict(err) {
		return errSlotTakenSince
	}
	return err
}

// ensureNoConflict rejects [startTime, endTime) if any blocking appointment
// of staffID on date other than excludeID overlaps it.
func ensureNoConflict(
	ctx context.Context,
	tx domain.Repository,
	staffID uint,
	date, startTime, endTime string,
	excludeID uint,
	conflictErr error,
) error {

	start, err := wallclock.Parse(startTime)
	if err != nil {
		return httperr.ErrValidation("invalid_time", "Start time must be HH:MM.")
	}
	end, err := wallclock.Parse(endTime)
	if err != nil {
		return httperr.ErrValidation("invalid_time", "End time must be HH:MM.")
	}

	existing, err := tx.ListBlockingAppointments(ctx, staffID, date, excludeID)
	if err != nil {
		return err
	}
	if domain.FindConflict(start, end, existing, excludeID) != nil {
		return conflictErr
	}
	return nil
}

func (d Deps) auditConflict(actorID uint, staffID uint, date, start, end string, appointmentID *uint) {
	d.Audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   audit.ActionAppointmentConflict,
		Entity:   audit.EntityAppointment,
		EntityID: appointmentID,
		Metadata: map[string]any{
			"staff_id": staffID,
			"date":     date,
			"start":    start,
			"end":      end,
		},
	})
}

func (d Deps) auditTransition(actorID uint, action string, ap *models.Appointment) {
	id := ap.ID
	d.Audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   action,
		Entity:   audit.EntityAppointment,
		EntityID: &id,
		Metadata: map[string]any{
			"status":   ap.Status,
			"staff_id": ap.StaffID,
			"date":     ap.Date,
			"start":    ap.StartTime,
		},
	})
}
