package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTransitions(t *testing.T) {
	t.Run("legal moves", func(t *testing.T) {
		assert.True(t, canTransition(StepForm, StepProcessing))
		assert.True(t, canTransition(StepProcessing, StepRedirect))
		assert.True(t, canTransition(StepProcessing, StepAwaitingProof))
		assert.True(t, canTransition(StepRedirect, StepPolling))
		assert.True(t, canTransition(StepPolling, StepSuccess))
		assert.True(t, canTransition(StepError, StepForm))
		assert.True(t, canTransition(StepExpired, StepForm))
	})

	t.Run("illegal moves", func(t *testing.T) {
		assert.False(t, canTransition(StepForm, StepRedirect))
		assert.False(t, canTransition(StepForm, StepSuccess))
		assert.False(t, canTransition(StepPolling, StepRedirect))
		assert.False(t, canTransition(StepSuccess, StepForm))
		assert.False(t, canTransition(StepSuccess, StepError))
	})

	t.Run("terminal steps", func(t *testing.T) {
		assert.True(t, StepSuccess.Terminal())
		assert.True(t, StepExpired.Terminal())
		assert.False(t, StepError.Terminal(), "error is recoverable, not terminal")
		assert.False(t, StepPolling.Terminal())
	})

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, "form", StepForm.String())
		assert.Equal(t, "awaiting_proof", StepAwaitingProof.String())
		assert.Equal(t, "expired", StepExpired.String())
	})
}
