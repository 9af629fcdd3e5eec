package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

type DeclineAppointment struct {
	Deps
}

func NewDeclineAppointment(d Deps) *DeclineAppointment {
	return &DeclineAppointment{Deps: d}
}

// Execute frees the slot, so no conflict check or scope lock is needed.
func (uc *DeclineAppointment) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	var out *models.Appointment
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if err := domain.Decline(cur, reason); err != nil {
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

	uc.notifier().Notify(out.ClientID, notification.Event{
		Type:          notification.TypeAppointmentDeclined,
		Title:         "Appointment declined",
		Message:       fmt.Sprintf("Your request for %s at %s was declined: %s", out.Date, out.StartTime, out.DeclineReason),
		AppointmentID: out.ID,
	})
	uc.auditTransition(actorID, audit.ActionAppointmentDeclined, out)

	return out, nil
}
