package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

type ProposeInput struct {
	ActorID       uint
	AppointmentID uint
	StaffID       uint
	Date          string
	StartTime     string
	Message       string
}

type ProposeAlternative struct {
	Deps
}

func NewProposeAlternative(d Deps) *ProposeAlternative {
	return &ProposeAlternative{Deps: d}
}

// Execute claims the proposed slot on the target staff and date. The
// appointment keeps its own fields until the client accepts.
func (uc *ProposeAlternative) Execute(
	ctx context.Context,
	in ProposeInput,
) (*models.Appointment, error) {

	msg := strings.TrimSpace(in.Message)
	if err := domain.ValidateMessage(msg); err != nil {
		return nil, err
	}

	ap, err := uc.loadAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanPropose(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	svc, err := uc.Repo.GetService(ctx, ap.ServiceID)
	if err != nil {
		return nil, notFoundAs(err, errServiceNotFound)
	}
	if _, err := uc.loadCapableStaff(ctx, in.StaffID, svc.ID); err != nil {
		return nil, err
	}

	sl, err := uc.resolveSlot(ctx, in.StaffID, in.Date, in.StartTime, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	proposal := models.Proposal{
		StaffID:   in.StaffID,
		Date:      sl.date,
		StartTime: sl.start,
		EndTime:   sl.end,
		Message:   msg,
	}

	// A non-blocking appointment starts blocking its own slot again once
	// proposed, so that slot is locked and re-checked too.
	scopes := []scope{{in.StaffID, proposal.Date}}
	ownHeld := !domain.Status(ap.Status).IsBlocking()
	if ownHeld {
		scopes = append(scopes, scope{ap.StaffID, ap.Date})
	}

	var out *models.Appointment
	err = uc.inScope(ctx, scopes, func(tx domain.Repository) error {
		cur, err := tx.GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil {
			return notFoundAs(err, errAppointmentNotFound)
		}
		if err := domain.CanPropose(domain.Status(cur.Status)); err != nil {
			return err
		}
		if err := ensureNoConflict(ctx, tx, in.StaffID, proposal.Date, proposal.StartTime, proposal.EndTime, cur.ID, errSlotTakenSince); err != nil {
			return err
		}
		if !domain.Status(cur.Status).IsBlocking() {
			if !ownHeld || cur.StaffID != ap.StaffID || cur.Date != ap.Date {
				return errScopeChanged
			}
			if err := ensureNoConflict(ctx, tx, cur.StaffID, cur.Date, cur.StartTime, cur.EndTime, cur.ID, errSlotTakenSince); err != nil {
				return err
			}
		}
		if err := domain.Propose(cur, proposal); err != nil {
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
			uc.auditConflict(in.ActorID, in.StaffID, proposal.Date, proposal.StartTime, proposal.EndTime, &ap.ID)
		}
		return nil, err
	}

	uc.notifier().Notify(out.ClientID, notification.Event{
		Type:          notification.TypeAppointmentProposed,
		Title:         "New time proposed",
		Message:       fmt.Sprintf("We proposed %s at %s instead.", proposal.Date, proposal.StartTime),
		AppointmentID: out.ID,
	})
	uc.auditTransition(in.ActorID, audit.ActionAppointmentProposed, out)

	return out, nil
}
