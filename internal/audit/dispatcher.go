package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	ActionAppointmentCreated       = "appointment_created"
	ActionAppointmentRescheduled   = "appointment_rescheduled"
	ActionAppointmentStatusChanged = "appointment_status_changed"
	ActionAppointmentConflict      = "appointment_conflict"
	ActionBlackoutCreated          = "blackout_created"
	ActionBlackoutDeleted          = "blackout_deleted"
	ActionWaitlistCreated          = "waitlist_created"
	ActionWaitlistPromoted         = "waitlist_promoted"
	ActionWaitlistCanceled         = "waitlist_canceled"
	ActionRatingCreated            = "rating_created"
	ActionRatingReplied            = "rating_replied"
	ActionRatingVisibility         = "rating_visibility_changed"
)

type Event struct {
	EstablishmentID uint
	UserID          *uint
	Action          string
	Entity          string
	EntityID        string
	Metadata        any
}

type Dispatcher struct {
	logger *Logger
	log    zerolog.Logger
	queue  chan Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *Logger, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Error().
				Err(err).
				Str("action", ev.Action).
				Str("entity_id", ev.EntityID).
				Msg("audit write failed")
		}
	}
}

// Dispatch enfileira o evento. Fila cheia ou dispatcher fechado descarta:
// auditoria nunca quebra a API. Dispatcher nil é no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().
			Str("action", ev.Action).
			Msg("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Str("action", ev.Action).
			Msg("audit queue full, dropping event")
	}
}

// Close drena a fila e espera o worker terminar. Pode ser chamado mais
// de uma vez.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
