package booking

import (
	"clinicbook/models"
)

// paymentFlow is one payment method's terminal sub-flow. Both variants
// share the reservation, countdown and cancellation contract owned by the
// session; they differ only in what happens after the reservation is made.
type paymentFlow interface {
	Method() models.PaymentMethod
	// begin moves the session out of StepProcessing once the reservation
	// exists. Called with the session lock held.
	begin(s *FlowSession) error
}

func flowFor(method models.PaymentMethod) paymentFlow {
	switch method {
	case models.MethodGCash:
		return gCashFlow{}
	default:
		return payMayaFlow{}
	}
}

// payMayaFlow: the backend issues an external checkout link; the patient
// opens it and the session polls the payment status to a terminal outcome.
type payMayaFlow struct{}

func (payMayaFlow) Method() models.PaymentMethod { return models.MethodPayMaya }

func (payMayaFlow) begin(s *FlowSession) error {
	// A PayMaya booking without a checkout link is a failed booking, not a
	// flow stuck in processing.
	if s.reservation == nil || s.reservation.CheckoutURL == "" {
		return NewStateError("booking response carried no checkout_url")
	}
	if err := s.move(StepRedirect); err != nil {
		return err
	}
	s.armCountdownLocked()
	return nil
}

// gCashFlow: no redirect; the reservation is held while the patient uploads
// a payment proof, which staff verify out-of-band.
type gCashFlow struct{}

func (gCashFlow) Method() models.PaymentMethod { return models.MethodGCash }

func (gCashFlow) begin(s *FlowSession) error {
	if err := s.move(StepAwaitingProof); err != nil {
		return err
	}
	s.armCountdownLocked()
	return nil
}
