package notification

// Stable event types. Clients and the inbox UI switch on these.
const (
	TypeAppointmentRequested = "APPOINTMENT_REQUESTED"
	TypeAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	TypeAppointmentDeclined  = "APPOINTMENT_DECLINED"
	TypeAppointmentProposed  = "APPOINTMENT_PROPOSED"
	TypeProposalAccepted     = "PROPOSAL_ACCEPTED"
	TypeProposalRejected     = "PROPOSAL_REJECTED"
	TypeAppointmentCancelled = "APPOINTMENT_CANCELLED"
	TypeAppointmentStatus    = "APPOINTMENT_STATUS"
)

type Event struct {
	Type          string
	Title         string
	Message       string
	AppointmentID uint
}

// Notifier is fire-and-forget: callers never wait on delivery.
type Notifier interface {
	Notify(userID uint, ev Event)
}

// NotifyAll sends ev to each user.
func NotifyAll(n Notifier, userIDs []uint, ev Event) {
	for _, id := range userIDs {
		n.Notify(id, ev)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Notify(uint, Event) {}
