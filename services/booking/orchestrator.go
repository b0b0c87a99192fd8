package booking

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"clinicbook/gateway"
	"clinicbook/models"
	"clinicbook/services/notification"
	"clinicbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingFlowService implements BookingFlowService with an in-memory
// session registry. Sessions are per booking attempt and never persisted;
// the external backend stays the only authority on reservations.
type DefaultBookingFlowService struct {
	Gateway         gateway.ClinicGateway
	NotificationSvc notification.NotificationService
	Logger          *zap.Logger

	// Now and the poll knobs are injectable for tests; zero values fall
	// back to the configured defaults.
	Now             func() time.Time
	PollInterval    time.Duration
	PollMaxAttempts int
	ProofMaxBytes   int64

	mu       sync.Mutex
	sessions map[string]*FlowSession
}

// NewBookingFlowService wires the orchestrator with production defaults.
func NewBookingFlowService(gw gateway.ClinicGateway, notif notification.NotificationService, logger *zap.Logger, pollInterval time.Duration, pollMaxAttempts int, proofMaxBytes int64) *DefaultBookingFlowService {
	return &DefaultBookingFlowService{
		Gateway:         gw,
		NotificationSvc: notif,
		Logger:          logger,
		Now:             time.Now,
		PollInterval:    pollInterval,
		PollMaxAttempts: pollMaxAttempts,
		ProofMaxBytes:   proofMaxBytes,
		sessions:        make(map[string]*FlowSession),
	}
}

func (svc *DefaultBookingFlowService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// sessionIdleTTL bounds how long a session without a live reservation may
// sit untouched before the registry drops it.
const sessionIdleTTL = 30 * time.Minute

func (svc *DefaultBookingFlowService) session(id string) (*FlowSession, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	s, ok := svc.sessions[id]
	if !ok {
		return nil, NewNotFoundError("booking session not found")
	}
	s.mu.Lock()
	s.touched = svc.now()
	s.mu.Unlock()
	return s, nil
}

// StartSession opens a flow session and loads the doctor's schedule.
func (svc *DefaultBookingFlowService) StartSession(ctx context.Context, token, userID, doctorID string) (*FlowSession, error) {
	if doctorID == "" {
		return nil, NewSlotError("no doctor selected")
	}

	// At most one live reservation per user: a pending attempt must be
	// cancelled or resolved before another one may begin. The same sweep
	// evicts finished and abandoned sessions so the registry only grows
	// with active flows.
	idleCutoff := svc.now().Add(-sessionIdleTTL)
	svc.mu.Lock()
	for id, existing := range svc.sessions {
		existing.mu.Lock()
		live := existing.hasLiveReservationLocked()
		idle := existing.touched.Before(idleCutoff)
		existing.mu.Unlock()
		if live {
			if existing.UserID == userID {
				svc.mu.Unlock()
				return nil, NewConflictError("another booking attempt is still pending; cancel it first")
			}
			continue
		}
		if existing.UserID == userID || idle {
			existing.mu.Lock()
			existing.stopTimersLocked()
			existing.mu.Unlock()
			delete(svc.sessions, id)
		}
	}
	svc.mu.Unlock()

	raw, err := svc.Gateway.FetchDoctorSchedule(ctx, token, doctorID)
	if err != nil {
		return nil, err
	}

	sess := &FlowSession{
		ID:       uuid.New().String(),
		UserID:   userID,
		DoctorID: doctorID,
		token:    token,
		step:     StepForm,
		schedule: NormalizeSchedule(doctorID, raw.Availability, svc.now(), svc.Logger),
		touched:  svc.now(),
		now:      svc.now,
		logger:   svc.Logger,
	}

	svc.mu.Lock()
	svc.sessions[sess.ID] = sess
	svc.mu.Unlock()

	svc.Logger.Info("booking session started",
		zap.String("sessionID", sess.ID),
		zap.String("userID", userID),
		zap.String("doctorID", doctorID))
	return sess, nil
}

// RefreshSchedule refetches availability. A fetch failure surfaces to the
// caller but leaves the previously loaded schedule untouched.
func (svc *DefaultBookingFlowService) RefreshSchedule(ctx context.Context, sessionID string) error {
	sess, err := svc.session(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	token := sess.token
	sess.mu.Unlock()

	raw, err := svc.Gateway.FetchDoctorSchedule(ctx, token, sess.DoctorID)
	if err != nil {
		return err
	}
	normalized := NormalizeSchedule(sess.DoctorID, raw.Availability, svc.now(), svc.Logger)

	sess.mu.Lock()
	sess.schedule = normalized
	sess.mu.Unlock()
	return nil
}

// Schedule returns the session's normalized schedule.
func (svc *DefaultBookingFlowService) Schedule(sessionID string) (*models.DoctorSchedule, error) {
	sess, err := svc.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.schedule, nil
}

// SelectSlot picks a slot by date key and exact start time.
func (svc *DefaultBookingFlowService) SelectSlot(sessionID, dateKey string, start time.Time) error {
	sess, err := svc.session(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != StepForm {
		return NewStateError("slot selection is only possible before payment starts")
	}
	slot, err := ResolveSlot(sess.schedule, dateKey, start, svc.now())
	if err != nil {
		return err
	}
	sess.slotDate = dateKey
	sess.slot = slot
	return nil
}

// ConfirmPayment constructs exactly one BookingRequest from the current
// selections, submits it, and enters the chosen payment sub-flow.
func (svc *DefaultBookingFlowService) ConfirmPayment(ctx context.Context, sessionID string, method models.PaymentMethod, notes string) (models.FlowSnapshot, error) {
	sess, err := svc.session(sessionID)
	if err != nil {
		return models.FlowSnapshot{}, err
	}

	sess.mu.Lock()
	if sess.step == StepExpired {
		sess.mu.Unlock()
		return sess.Snapshot(), NewExpiredError("reservation expired; choose another slot and try again")
	}
	if sess.step != StepForm {
		sess.mu.Unlock()
		return sess.Snapshot(), NewStateError("payment already in progress")
	}
	if sess.slot == nil {
		sess.mu.Unlock()
		return sess.Snapshot(), NewSlotError("no time slot selected")
	}
	// Fail fast, before any network call, if the selection no longer
	// matches the cached schedule.
	slot, err := ResolveSlot(sess.schedule, sess.slotDate, sess.slot.Start, svc.now())
	if err != nil {
		sess.mu.Unlock()
		return sess.Snapshot(), err
	}
	if err := sess.move(StepProcessing); err != nil {
		sess.mu.Unlock()
		return sess.Snapshot(), err
	}
	sess.method = method
	sess.notes = notes
	req := models.BookingRequest{
		DoctorID:        sess.DoctorID,
		AppointmentDate: slot.Start.UTC().Format(time.RFC3339),
		Notes:           notes,
		PaymentMethod:   string(method),
	}
	token := sess.token
	sess.mu.Unlock()

	// The booking POST happens outside the session lock so snapshots and
	// cancellation stay responsive.
	reservation, bookErr := svc.Gateway.BookAppointment(ctx, token, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != StepProcessing {
		// Cancelled or expired while the request was in flight. If the
		// backend did create a reservation, release it.
		if reservation != nil {
			svc.cancelRemote(token, reservation.AppointmentRequestID)
		}
		return sess.snapshotLocked(), NewStateError("booking attempt was interrupted")
	}

	if bookErr != nil {
		sess.failLocked(userFacing(bookErr))
		return sess.snapshotLocked(), bookErr
	}

	sess.reservation = reservation
	if err := flowFor(method).begin(sess); err != nil {
		// The reservation stays server-side for explicit retry or cancel;
		// the client never silently retries a failed submission.
		sess.failLocked(userFacing(err))
		return sess.snapshotLocked(), err
	}
	return sess.snapshotLocked(), nil
}

// OpenedCheckout is the user-initiated redirect->polling transition: the
// system never infers that the external checkout was opened.
func (svc *DefaultBookingFlowService) OpenedCheckout(sessionID string) error {
	sess, err := svc.session(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != StepRedirect {
		return NewStateError("no checkout redirect is pending")
	}
	if sess.reservation == nil || sess.reservation.PaymentID == "" {
		sess.failLocked("No payment reference to poll. Please try again.")
		return NewStateError("reservation has no payment id")
	}
	if err := sess.move(StepPolling); err != nil {
		return err
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	sess.pollCancel = cancel
	go svc.runPoller(pollCtx, sess, sess.token, sess.reservation.PaymentID)
	return nil
}

// runPoller drives the bounded status poll loop for one payment.
func (svc *DefaultBookingFlowService) runPoller(ctx context.Context, sess *FlowSession, token, paymentID string) {
	interval := svc.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxAttempts := svc.PollMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	err := pollUntil(ctx, interval, maxAttempts, func(ctx context.Context, attempt int) (bool, error) {
		status, raw, err := svc.Gateway.PaymentStatus(ctx, token, paymentID)
		if err != nil {
			// A failed check is not a failed payment; keep polling within
			// the attempt budget.
			svc.Logger.Warn("payment status check failed",
				zap.String("sessionID", sess.ID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return false, nil
		}

		switch {
		case status.TerminalSuccess():
			svc.completeSuccess(sess)
			return true, nil
		case status.TerminalFailure():
			sess.mu.Lock()
			sess.failLocked(paymentFailureMessage(status))
			sess.mu.Unlock()
			return true, nil
		case status == models.StatusUnknown:
			// Lenient by choice: unknown vocabulary keeps polling, bounded
			// by the attempt ceiling, but is logged as an anomaly.
			svc.Logger.Warn("unknown payment status vocabulary",
				zap.String("sessionID", sess.ID),
				zap.String("rawStatus", raw))
		}
		return false, nil
	})

	switch {
	case err == nil:
	case ctx.Err() != nil:
		// Poller was cancelled; whoever cancelled it owns the state.
	case err == ErrPollTimeout:
		sess.mu.Lock()
		sess.failLocked("Payment status check timed out. Please check your appointments page for confirmation.")
		sess.mu.Unlock()
	default:
		sess.mu.Lock()
		sess.failLocked(userFacing(err))
		sess.mu.Unlock()
	}
}

// CheckPaymentNow performs one immediate, user-triggered status check.
func (svc *DefaultBookingFlowService) CheckPaymentNow(ctx context.Context, sessionID string) (models.PaymentStatus, error) {
	sess, err := svc.session(sessionID)
	if err != nil {
		return models.StatusUnknown, err
	}

	sess.mu.Lock()
	if sess.reservation == nil || sess.reservation.PaymentID == "" {
		sess.mu.Unlock()
		return models.StatusUnknown, NewStateError("no payment to check")
	}
	token, paymentID := sess.token, sess.reservation.PaymentID
	sess.mu.Unlock()

	status, _, err := svc.Gateway.PaymentStatus(ctx, token, paymentID)
	if err != nil {
		return models.StatusUnknown, err
	}
	// A manual check records terminal outcomes exactly like the poller, so
	// the snapshot never contradicts a status the user has already seen.
	switch {
	case status.TerminalSuccess():
		svc.completeSuccess(sess)
	case status.TerminalFailure():
		sess.mu.Lock()
		sess.failLocked(paymentFailureMessage(status))
		sess.mu.Unlock()
	}
	return status, nil
}

func paymentFailureMessage(status models.PaymentStatus) string {
	return "Payment " + string(status) + ". Please try again."
}

// UploadProof validates the GCash proof locally, then submits it. Local
// validation rejects oversized or non-image/PDF files before any network
// call is made.
func (svc *DefaultBookingFlowService) UploadProof(ctx context.Context, sessionID, filename, contentType string, size int64, proof io.Reader) error {
	sess, err := svc.session(sessionID)
	if err != nil {
		return err
	}

	maxBytes := svc.ProofMaxBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	if size > maxBytes {
		return NewProofError("file size should be less than 5MB")
	}
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" {
		return NewProofError("please select an image or PDF file")
	}

	sess.mu.Lock()
	if sess.step == StepExpired {
		sess.mu.Unlock()
		return NewExpiredError("reservation expired; choose another slot and try again")
	}
	if sess.step != StepAwaitingProof {
		sess.mu.Unlock()
		return NewStateError("no reservation is waiting for a payment proof")
	}
	if sess.reservation == nil {
		sess.mu.Unlock()
		return NewStateError("no reservation to attach the proof to")
	}
	token, requestID := sess.token, sess.reservation.AppointmentRequestID
	sess.mu.Unlock()

	if err := svc.Gateway.UploadGCashProof(ctx, token, requestID, filename, proof); err != nil {
		sess.mu.Lock()
		sess.failLocked(userFacing(err))
		sess.mu.Unlock()
		return err
	}

	svc.completeSuccess(sess)
	return nil
}

// CancelSession releases the reservation (best-effort) and resets local
// state unconditionally so the form is ready for a fresh booking.
func (svc *DefaultBookingFlowService) CancelSession(ctx context.Context, sessionID string) error {
	sess, err := svc.session(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	var requestID string
	if sess.reservation != nil {
		requestID = sess.reservation.AppointmentRequestID
	}
	token := sess.token
	// Cancellation is an out-of-band reset, valid from any state: stop both
	// timers, drop the reservation, return to the form.
	sess.stopTimersLocked()
	sess.clearReservationLocked()
	sess.step = StepForm
	sess.lastError = ""
	sess.mu.Unlock()

	if requestID != "" {
		svc.cancelRemote(token, requestID)
	}
	return nil
}

// cancelRemote issues the best-effort server-side cancellation. Failures
// are logged, never surfaced: local state must not get stuck on them.
func (svc *DefaultBookingFlowService) cancelRemote(token, appointmentRequestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Gateway.CancelAppointmentRequest(ctx, token, appointmentRequestID); err != nil {
		svc.Logger.Warn("reservation cancellation failed",
			zap.String("appointmentRequestID", appointmentRequestID),
			zap.Error(err))
	}
}

// Retry re-enters the flow from the form after a recoverable error.
func (svc *DefaultBookingFlowService) Retry(sessionID string) error {
	sess, err := svc.session(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.retryLocked()
}

// Snapshot returns the session's externally visible state.
func (svc *DefaultBookingFlowService) Snapshot(sessionID string) (models.FlowSnapshot, error) {
	sess, err := svc.session(sessionID)
	if err != nil {
		return models.FlowSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

// completeSuccess records the terminal success outcome and fires its side
// effects: confirmation notification and the patient's queue-number cache.
func (svc *DefaultBookingFlowService) completeSuccess(sess *FlowSession) {
	sess.mu.Lock()
	slotStart := ""
	if sess.slot != nil {
		slotStart = sess.slot.Start.UTC().Format(time.RFC3339)
	}
	method := string(sess.method)
	reservation, ok := sess.succeedLocked()
	sess.mu.Unlock()
	if !ok {
		return
	}

	svc.Logger.Info("booking confirmed",
		zap.String("sessionID", sess.ID),
		zap.String("userID", sess.UserID))

	confirmation := models.BookingConfirmation{
		UserID:        sess.UserID,
		DoctorID:      sess.DoctorID,
		SlotStart:     slotStart,
		PaymentMethod: method,
	}
	if reservation != nil {
		confirmation.AppointmentRequestID = reservation.AppointmentRequestID
	}

	if svc.NotificationSvc != nil {
		if err := svc.NotificationSvc.NotifyBookingConfirmed(context.Background(), confirmation); err != nil {
			svc.Logger.Warn("confirmation notification failed",
				zap.String("sessionID", sess.ID),
				zap.Error(err))
		}
	}

	// The queueing page reads the patient's latest confirmed request from
	// this cache key.
	if reservation != nil && utils.QueueCacheClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := utils.QueueNumberKey(sess.UserID)
		if err := utils.QueueCacheClient.Set(ctx, key, reservation.AppointmentRequestID, 24*time.Hour).Err(); err != nil {
			svc.Logger.Warn("queue number cache write failed", zap.Error(err))
		}
	}
}
