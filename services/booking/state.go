package booking

import "fmt"

// Step is the explicit state of one booking flow session. The dialog's
// implicit step-string machine from the original flow is replaced by a
// closed enum with a transition table so every move is validated.
type Step int

const (
	// StepForm: slot selection in progress, no reservation held.
	StepForm Step = iota
	// StepProcessing: booking request submitted, waiting on the backend.
	StepProcessing
	// StepRedirect: reservation held, checkout link issued, countdown running.
	StepRedirect
	// StepAwaitingProof: reservation held, waiting for the GCash proof upload.
	StepAwaitingProof
	// StepPolling: checkout opened, payment status poller running.
	StepPolling
	// StepSuccess: terminal; booking confirmed (or proof accepted).
	StepSuccess
	// StepError: recoverable failure; retry re-enters from StepForm.
	StepError
	// StepExpired: the reservation countdown reached zero.
	StepExpired
)

func (s Step) String() string {
	switch s {
	case StepForm:
		return "form"
	case StepProcessing:
		return "processing"
	case StepRedirect:
		return "redirect"
	case StepAwaitingProof:
		return "awaiting_proof"
	case StepPolling:
		return "polling"
	case StepSuccess:
		return "success"
	case StepError:
		return "error"
	case StepExpired:
		return "expired"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Terminal reports whether the flow has recorded a final outcome.
// StepError is recoverable and deliberately not terminal.
func (s Step) Terminal() bool {
	return s == StepSuccess || s == StepExpired
}

// transitions holds the legal moves of the flow. Expiry is handled
// out-of-band (any non-terminal step may expire) and is not listed.
var transitions = map[Step][]Step{
	StepForm:          {StepProcessing},
	StepProcessing:    {StepRedirect, StepAwaitingProof, StepError},
	StepRedirect:      {StepPolling, StepError},
	StepAwaitingProof: {StepSuccess, StepError},
	StepPolling:       {StepSuccess, StepError},
	StepError:         {StepForm},
	StepExpired:       {StepForm},
}

// canTransition reports whether moving from to next is a legal step.
func canTransition(from, next Step) bool {
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}
