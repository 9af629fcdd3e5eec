package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

// SetTerminalStatus closes a confirmed appointment as COMPLETED or NO_SHOW.
type SetTerminalStatus struct {
	Deps
}

func NewSetTerminalStatus(d Deps) *SetTerminalStatus {
	return &SetTerminalStatus{Deps: d}
}

func (uc *SetTerminalStatus) Execute(
	ctx context.Context,
	actorID uint,
	appointmentID uint,
	status string,
) (*models.Appointment, error) {

	target := domain.Status(status)

	var out *models.Appointment
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if err := domain.SetTerminal(cur, target); err != nil {
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
		Type:          notification.TypeAppointmentStatus,
		Title:         "Appointment updated",
		Message:       fmt.Sprintf("Your appointment on %s at %s is now %s.", out.Date, out.StartTime, out.Status),
		AppointmentID: out.ID,
	})
	uc.auditTransition(actorID, audit.ActionAppointmentStatus, out)

	return out, nil
}
