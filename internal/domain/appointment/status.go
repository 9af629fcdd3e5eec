package appointment

import (
	"slices"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingAdminReview     Status = "PENDING_ADMIN_REVIEW"
	StatusConfirmed              Status = "CONFIRMED"
	StatusDeclined               Status = "DECLINED"
	StatusProposedToClient       Status = "PROPOSED_TO_CLIENT"
	StatusClientRejectedProposal Status = "CLIENT_REJECTED_PROPOSAL"
	StatusCancelled              Status = "CANCELLED"
	StatusCompleted              Status = "COMPLETED"
	StatusNoShow                 Status = "NO_SHOW"
)

// blockingStatuses hold a slot for conflict purposes. Pending and proposed
// requests block too, so two requests for one slot can never both be confirmed.
var blockingStatuses = []Status{
	StatusPendingAdminReview,
	StatusConfirmed,
	StatusProposedToClient,
}

var terminalStatuses = []Status{
	StatusDeclined,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

func BlockingStatuses() []string {
	out := make([]string, len(blockingStatuses))
	for i, s := range blockingStatuses {
		out[i] = string(s)
	}
	return out
}

func (s Status) IsBlocking() bool {
	return slices.Contains(blockingStatuses, s)
}

func (s Status) IsTerminal() bool {
	return slices.Contains(terminalStatuses, s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingAdminReview, StatusConfirmed, StatusDeclined, StatusProposedToClient,
		StatusClientRejectedProposal, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

func InitialStatus() Status {
	return StatusPendingAdminReview
}

// ===============================
// Guards
// ===============================

func CanConfirm(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrInvalidState("invalid_state", "Appointment is already closed ("+string(current)+").")
	}
	return nil
}

func CanDecline(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrInvalidState("invalid_state", "Appointment is already closed ("+string(current)+").")
	}
	return nil
}

func CanPropose(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrInvalidState("invalid_state", "Appointment is already closed ("+string(current)+").")
	}
	return nil
}

func CanAnswerProposal(current Status) error {
	if current != StatusProposedToClient {
		return httperr.ErrInvalidState("no_proposal", "There is no proposal to answer.")
	}
	return nil
}

func CanCancel(current Status) error {
	if current == StatusCompleted || current == StatusNoShow {
		return httperr.ErrInvalidState("invalid_state", "Cannot cancel a finished appointment.")
	}
	return nil
}

func CanSetTerminal(current, target Status) error {
	if target != StatusCompleted && target != StatusNoShow {
		return httperr.ErrValidation("invalid_status", "Status must be COMPLETED or NO_SHOW.")
	}
	if current != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state", "Only confirmed appointments can be closed.")
	}
	return nil
}
