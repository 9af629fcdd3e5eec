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

type AcceptProposal struct {
	Deps
}

func NewAcceptProposal(d Deps) *AcceptProposal {
	return &AcceptProposal{Deps: d}
}

// Execute moves the appointment into the proposed slot. The proposed scope
// is locked and re-checked, since the slot may have been taken after the
// proposal was made.
func (uc *AcceptProposal) Execute(
	ctx context.Context,
	callerID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.AssertOwner(ap, callerID); err != nil {
		return nil, err
	}
	if err := domain.CanAnswerProposal(domain.Status(ap.Status)); err != nil {
		return nil, err
	}
	if ap.Proposed == nil {
		return nil, httperr.ErrInvalidState("no_proposal", "There is no proposal to accept.")
	}
	target := *ap.Proposed

	var out *models.Appointment
	err = uc.inScope(ctx, []scope{{target.StaffID, target.Date}}, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if cur.Proposed != nil && *cur.Proposed != target {
			return httperr.ErrInvalidState("proposal_changed", "The proposal changed. Please review it again.")
		}
		if err := ensureNoConflict(ctx, tx, target.StaffID, target.Date, target.StartTime, target.EndTime, cur.ID, errSlotTakenSince); err != nil {
			return err
		}
		if err := domain.AcceptProposal(cur, callerID); err != nil {
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
			uc.auditConflict(callerID, target.StaffID, target.Date, target.StartTime, target.EndTime, &ap.ID)
		}
		return nil, err
	}

	notification.NotifyAll(uc.notifier(), uc.adminIDs(ctx), notification.Event{
		Type:          notification.TypeProposalAccepted,
		Title:         "Proposal accepted",
		Message:       fmt.Sprintf("The client accepted %s at %s.", out.Date, out.StartTime),
		AppointmentID: out.ID,
	})
	uc.auditTransition(callerID, audit.ActionProposalAccepted, out)

	return out, nil
}
