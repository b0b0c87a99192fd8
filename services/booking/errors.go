package booking

import (
	"errors"
	"fmt"

	"clinicbook/gateway"
)

// FlowError is a typed orchestration failure surfaced to the caller.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newFlowError(code, msg string) error {
	return &FlowError{Code: code, Message: msg}
}

func NewSlotError(msg string) error     { return newFlowError("slotError", msg) }
func NewStateError(msg string) error    { return newFlowError("stateError", msg) }
func NewConflictError(msg string) error { return newFlowError("conflictError", msg) }
func NewProofError(msg string) error    { return newFlowError("proofError", msg) }
func NewNotFoundError(msg string) error { return newFlowError("notFound", msg) }
func NewExpiredError(msg string) error  { return newFlowError("reservationExpired", msg) }

// userFacing renders any flow or backend error as a single line fit to show
// the patient. FlowError messages are already written for that; everything
// else goes through the gateway's translation.
func userFacing(err error) string {
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Message
	}
	return gateway.UserFacing(err)
}
