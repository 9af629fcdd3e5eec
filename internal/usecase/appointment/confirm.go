package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

type ConfirmAppointment struct {
	Deps
}

func NewConfirmAppointment(d Deps) *ConfirmAppointment {
	return &ConfirmAppointment{Deps: d}
}

// Execute re-checks the appointment's own slot before confirming it.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanConfirm(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	var out *models.Appointment
	err = uc.inScope(ctx, []scope{{ap.StaffID, ap.Date}}, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if cur.StaffID != ap.StaffID || cur.Date != ap.Date {
			return errScopeChanged
		}
		if err := ensureNoConflict(ctx, tx, cur.StaffID, cur.Date, cur.StartTime, cur.EndTime, cur.ID, errSlotTakenSince); err != nil {
			return err
		}
		if err := domain.Confirm(cur); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			uc.auditConflict(actorID, ap.StaffID, ap.Date, ap.StartTime, ap.EndTime, &ap.ID)
		}
		return nil, err
	}

	uc.notifier().Notify(out.ClientID, notification.Event{
		Type:          notification.TypeAppointmentConfirmed,
		Title:         "Appointment confirmed",
		Message:       fmt.Sprintf("Your appointment on %s at %s is confirmed.", out.Date, out.StartTime),
		AppointmentID: out.ID,
	})
	uc.auditTransition(actorID, audit.ActionAppointmentConfirmed, out)

	return out, nil
}
