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

type CreateAppointmentInput struct {
	ClientID  uint
	ServiceID uint
	StaffID   uint
	Date      string
	StartTime string
	Note      string
}

type CreateAppointment struct {
	Deps
}

func NewCreateAppointment(d Deps) *CreateAppointment {
	return &CreateAppointment{Deps: d}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := domain.ValidateMessage(in.Note); err != nil {
		return nil, err
	}

	svc, err := uc.loadActiveService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.loadCapableStaff(ctx, in.StaffID, svc.ID); err != nil {
		return nil, err
	}

	sl, err := uc.resolveSlot(ctx, in.StaffID, in.Date, in.StartTime, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ClientID:   in.ClientID,
		StaffID:    in.StaffID,
		ServiceID:  svc.ID,
		Date:       sl.date,
		StartTime:  sl.start,
		EndTime:    sl.end,
		Status:     string(domain.InitialStatus()),
		ClientNote: in.Note,
	}

	err = uc.inScope(ctx, []scope{{in.StaffID, ap.Date}}, func(tx domain.Repository) error {
		if err := ensureNoConflict(ctx, tx, in.StaffID, ap.Date, ap.StartTime, ap.EndTime, 0, errSlotTaken); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			uc.auditConflict(in.ClientID, in.StaffID, ap.Date, ap.StartTime, ap.EndTime, nil)
		}
		return nil, err
	}

	notification.NotifyAll(uc.notifier(), uc.adminIDs(ctx), notification.Event{
		Type:          notification.TypeAppointmentRequested,
		Title:         "New appointment request",
		Message:       fmt.Sprintf("%s requested on %s at %s.", svc.Name, ap.Date, ap.StartTime),
		AppointmentID: ap.ID,
	})
	uc.auditTransition(in.ClientID, audit.ActionAppointmentCreated, ap)

	return ap, nil
}
