package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"PayMaya", "paymaya", " PAYMAYA "} {
		m, ok := ParsePaymentMethod(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, MethodPayMaya, m)
	}
	m, ok := ParsePaymentMethod("gcash")
	assert.True(t, ok)
	assert.Equal(t, MethodGCash, m)

	_, ok = ParsePaymentMethod("cash")
	assert.False(t, ok)
}

func TestPaymentStatusClassification(t *testing.T) {
	t.Run("success synonyms", func(t *testing.T) {
		for _, raw := range []string{"paid", "Success", "COMPLETED"} {
			s := NormalizePaymentStatus(raw)
			assert.True(t, s.TerminalSuccess(), raw)
		}
	})

	t.Run("failure synonyms", func(t *testing.T) {
		for _, raw := range []string{"failed", "expired", "cancelled", "canceled"} {
			s := NormalizePaymentStatus(raw)
			assert.True(t, s.TerminalFailure(), raw)
		}
	})

	t.Run("in-flight statuses are neither", func(t *testing.T) {
		for _, raw := range []string{"pending", "processing", "awaiting_settlement"} {
			s := NormalizePaymentStatus(raw)
			assert.False(t, s.TerminalSuccess(), raw)
			assert.False(t, s.TerminalFailure(), raw)
		}
	})
}

func TestReservationSecondsLeft(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	r := ReservationState{ReservationExpiresAt: now.Add(90*time.Second + 500*time.Millisecond)}
	assert.Equal(t, 90, r.SecondsLeft(now), "partial seconds are floored")
	assert.Equal(t, 0, r.SecondsLeft(now.Add(2*time.Minute)), "never negative")
}
