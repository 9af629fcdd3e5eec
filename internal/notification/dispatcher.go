package notification

import (
	"context"
	"log/slog"
	"time"
)

// Store persists a notification for a user's inbox.
type Store interface {
	Save(ctx context.Context, userID uint, ev Event) error
}

type job struct {
	userID uint
	ev     Event
}

// Dispatcher queues notifications and writes them from one worker, so a slow
// store never holds up a transition.
type Dispatcher struct {
	store  Store
	logger *slog.Logger
	queue  chan job
	done   chan struct{}
}

func NewDispatcher(store Store, logger *slog.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		store:  store,
		logger: logger,
		queue:  make(chan job, buffer),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.store.Save(ctx, j.userID, j.ev); err != nil {
			d.logger.Error("notification store failed",
				"user_id", j.userID,
				"type", j.ev.Type,
				"appointment_id", j.ev.AppointmentID,
				"err", err,
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Notify(userID uint, ev Event) {
	select {
	case d.queue <- job{userID: userID, ev: ev}:
	default:
		// queue full: drop rather than fail the request
		d.logger.Warn("notification queue full, dropping event",
			"user_id", userID,
			"type", ev.Type,
		)
	}
}

// Close drains the queue. Notify must not be called afterwards.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
