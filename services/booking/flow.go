package booking

import (
	"context"
	"sync"
	"time"

	"clinicbook/config"
	"clinicbook/models"

	"go.uber.org/zap"
)

// FlowSession is one booking attempt: the in-memory state machine plus the
// timers that belong to it. The reservation and payment identifiers it
// holds are owned exclusively by this session and die with it; they are
// never persisted or shared across sessions.
type FlowSession struct {
	ID       string
	UserID   string
	DoctorID string

	mu          sync.Mutex
	token       string
	step        Step
	schedule    *models.DoctorSchedule
	slotDate    string
	slot        *models.ScheduleSlot
	notes       string
	method      models.PaymentMethod
	reservation *models.ReservationState
	countdown   *Countdown
	pollCancel  context.CancelFunc
	lastError   string
	touched     time.Time

	now    func() time.Time
	logger *zap.Logger
}

// move applies a validated transition. Callers must hold s.mu.
func (s *FlowSession) move(next Step) error {
	if !canTransition(s.step, next) {
		return NewStateError("cannot move from " + s.step.String() + " to " + next.String())
	}
	s.logger.Debug("flow transition",
		zap.String("sessionID", s.ID),
		zap.String("from", s.step.String()),
		zap.String("to", next.String()))
	s.step = next
	return nil
}

// failLocked records a recoverable error outcome. Both timers are torn down;
// the reservation, if any, stays server-side for explicit retry or cancel.
// Callers must hold s.mu.
func (s *FlowSession) failLocked(msg string) {
	if s.step.Terminal() {
		return
	}
	s.stopTimersLocked()
	s.step = StepError
	s.lastError = msg
	s.logger.Warn("booking flow error",
		zap.String("sessionID", s.ID),
		zap.String("message", msg))
}

// stopTimersLocked tears down the countdown and the poller. Idempotent.
// Callers must hold s.mu.
func (s *FlowSession) stopTimersLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

// clearReservationLocked drops every client-held reservation/payment
// identifier so the next attempt starts from a clean slate. Callers must
// hold s.mu.
func (s *FlowSession) clearReservationLocked() {
	s.reservation = nil
}

// armCountdownLocked starts the expiry timer for the current reservation,
// replacing any previous handle so stale timers never outlive their
// reservation. Callers must hold s.mu.
func (s *FlowSession) armCountdownLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.reservation == nil || s.reservation.ReservationExpiresAt.IsZero() {
		return
	}
	s.countdown = startCountdown(s.reservation.ReservationExpiresAt, time.Second, s.now, s.expire)
}

// expire is the countdown callback: the reservation lapsed before a
// terminal outcome. A success recorded in the same tick wins; the expiry
// then must not clobber it.
func (s *FlowSession) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step.Terminal() {
		return
	}
	s.stopTimersLocked()
	s.clearReservationLocked()
	s.step = StepExpired
	s.lastError = "Reservation expired. Please choose another slot and try again."
	s.logger.Info("reservation expired", zap.String("sessionID", s.ID))
}

// succeedLocked records terminal success. It may also reclaim a session
// that expired in the same instant a successful poll resolved: the payment
// went through, so success is the recorded outcome. Callers must hold s.mu.
func (s *FlowSession) succeedLocked() (*models.ReservationState, bool) {
	if s.step == StepSuccess {
		return nil, false
	}
	reservation := s.reservation
	s.stopTimersLocked()
	s.clearReservationLocked()
	s.step = StepSuccess
	s.lastError = ""
	// Reset the form so a fresh booking starts clean.
	s.slotDate = ""
	s.slot = nil
	s.notes = ""
	return reservation, true
}

// retryLocked re-enters the flow from scratch after an error. The doctor
// and slot selections are retained; reservation identifiers are not.
// Callers must hold s.mu.
func (s *FlowSession) retryLocked() error {
	if err := s.move(StepForm); err != nil {
		return err
	}
	s.clearReservationLocked()
	s.lastError = ""
	return nil
}

// hasLiveReservationLocked reports whether this session still holds an
// unresolved reservation. Callers must hold s.mu.
func (s *FlowSession) hasLiveReservationLocked() bool {
	return s.reservation != nil && !s.step.Terminal()
}

// Snapshot renders the externally visible state of the session.
func (s *FlowSession) Snapshot() models.FlowSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked is Snapshot for callers already holding s.mu.
func (s *FlowSession) snapshotLocked() models.FlowSnapshot {
	snap := models.FlowSnapshot{
		SessionID:       s.ID,
		Step:            s.step.String(),
		DoctorID:        s.DoctorID,
		SlotDate:        s.slotDate,
		PaymentMethod:   string(s.method),
		LastError:       s.lastError,
		ConsultationFee: config.AppConfig.ConsultationFee,
	}
	if s.slot != nil {
		snap.SlotStart = s.slot.Start.UTC().Format(time.RFC3339)
	}
	if s.reservation != nil {
		snap.CheckoutURL = s.reservation.CheckoutURL
		snap.SecondsLeft = s.reservation.SecondsLeft(s.now())
	}
	return snap
}
