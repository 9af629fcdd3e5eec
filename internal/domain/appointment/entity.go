package appointment

import (
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const (
	MinDeclineReasonLen = 2
	MaxDeclineReasonLen = 300
	MaxMessageLen       = 500
)

// ===============================
// Domain Actions
// ===============================

// Confirm assumes the slot was re-checked by the caller.
func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.DeclineReason = ""
	ap.Proposed = nil
	return nil
}

func Decline(ap *models.Appointment, reason string) error {
	reason = strings.TrimSpace(reason)
	if err := ValidateDeclineReason(reason); err != nil {
		return err
	}
	if err := CanDecline(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusDeclined)
	ap.DeclineReason = reason
	ap.Proposed = nil
	return nil
}

// Propose stores the counter-offer without touching the appointment's own
// staff, date or times.
func Propose(ap *models.Appointment, p models.Proposal) error {
	if err := CanPropose(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusProposedToClient)
	ap.Proposed = &p
	return nil
}

func AcceptProposal(ap *models.Appointment, callerID uint) error {
	if err := AssertOwner(ap, callerID); err != nil {
		return err
	}
	if err := CanAnswerProposal(Status(ap.Status)); err != nil {
		return err
	}
	if ap.Proposed == nil {
		return httperr.ErrInvalidState("no_proposal", "There is no proposal to accept.")
	}

	p := ap.Proposed
	ap.StaffID = p.StaffID
	ap.Date = p.Date
	ap.StartTime = p.StartTime
	ap.EndTime = p.EndTime
	ap.Status = string(StatusConfirmed)
	ap.Proposed = nil
	ap.SyncMinutes()
	return nil
}

// RejectProposal keeps the proposal on the record so the operator can see
// what was turned down. A non-blocking status means it holds no slot.
func RejectProposal(ap *models.Appointment, callerID uint) error {
	if err := AssertOwner(ap, callerID); err != nil {
		return err
	}
	if err := CanAnswerProposal(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusClientRejectedProposal)
	return nil
}

func Cancel(ap *models.Appointment, callerID uint) error {
	if err := AssertOwner(ap, callerID); err != nil {
		return err
	}
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.Proposed = nil
	return nil
}

func SetTerminal(ap *models.Appointment, target Status) error {
	if err := CanSetTerminal(Status(ap.Status), target); err != nil {
		return err
	}

	ap.Status = string(target)
	return nil
}

// ===============================
// Validations
// ===============================

func AssertOwner(ap *models.Appointment, callerID uint) error {
	if ap.ClientID != callerID {
		return httperr.ErrForbidden("forbidden", "Only the client who booked this appointment can do that.")
	}
	return nil
}

func ValidateDeclineReason(reason string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(reason))
	if n < MinDeclineReasonLen || n > MaxDeclineReasonLen {
		return httperr.ErrValidation("invalid_reason", "Reason must be between 2 and 300 characters.")
	}
	return nil
}

func ValidateMessage(msg string) error {
	if utf8.RuneCountInString(msg) > MaxMessageLen {
		return httperr.ErrValidation("message_too_long", "Message must be at most 500 characters.")
	}
	return nil
}
