package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

type CancelAppointment struct {
	Deps
}

func NewCancelAppointment(d Deps) *CancelAppointment {
	return &CancelAppointment{Deps: d}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	callerID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var out *models.Appointment
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if err := domain.Cancel(cur, callerID); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	notification.NotifyAll(uc.notifier(), uc.adminIDs(ctx), notification.Event{
		Type:          notification.TypeAppointmentCancelled,
		Title:         "Appointment cancelled",
		Message:       fmt.Sprintf("The client cancelled %s at %s.", out.Date, out.StartTime),
		AppointmentID: out.ID,
	})
	uc.auditTransition(callerID, audit.ActionAppointmentCancelled, out)

	return out, nil
}
