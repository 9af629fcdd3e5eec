package audit

import (
	"context"
	"log/slog"
	"time"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentConfirmed = "appointment_confirmed"
	ActionAppointmentDeclined  = "appointment_declined"
	ActionAppointmentProposed  = "appointment_proposed"
	ActionProposalAccepted     = "proposal_accepted"
	ActionProposalRejected     = "proposal_rejected"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionAppointmentStatus    = "appointment_status_set"
	ActionAppointmentConflict  = "appointment_conflict"
	ActionWorkingHoursReplaced = "working_hours_replaced"
	ActionTimeOffCreated       = "time_off_created"
	ActionTimeOffDeleted       = "time_off_deleted"

	EntityAppointment = "appointment"
	EntityStaff       = "staff"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink writes one audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.logger.Error("audit error", "action", ev.Action, "err", err)
		}
		cancel()
	}
}

// Dispatch never blocks and never fails the caller. A nil Dispatcher
// discards events.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	close(d.queue)
	<-d.done
}
