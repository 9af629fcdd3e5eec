package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

type RejectProposal struct {
	Deps
}

func NewRejectProposal(d Deps) *RejectProposal {
	return &RejectProposal{Deps: d}
}

func (uc *RejectProposal) Execute(
	ctx context.Context,
	callerID uint,
	appointmentID uint,
	message string,
) (*models.Appointment, error) {

	message = strings.TrimSpace(message)
	if err := domain.ValidateMessage(message); err != nil {
		return nil, err
	}

	var out *models.Appointment
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if err := domain.RejectProposal(cur, callerID); err != nil {
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

	text := "The client rejected the proposed time."
	if message != "" {
		text += " " + message
	}
	notification.NotifyAll(uc.notifier(), uc.adminIDs(ctx), notification.Event{
		Type:          notification.TypeProposalRejected,
		Title:         "Proposal rejected",
		Message:       text,
		AppointmentID: out.ID,
	})
	uc.auditTransition(callerID, audit.ActionProposalRejected, out)

	return out, nil
}
