package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"clinicbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(handler http.Handler) (*HTTPGateway, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewHTTPGateway(srv.URL, 5*time.Second, zap.NewNop()), srv
}

func TestDoJSONAuth(t *testing.T) {
	t.Run("missing token short-circuits before any request", func(t *testing.T) {
		var hits int32
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer srv.Close()

		_, err := gw.ListDoctors(context.Background(), "")
		require.ErrorIs(t, err, ErrNoToken)
		assert.Zero(t, atomic.LoadInt32(&hits))
	})

	t.Run("bearer token is forwarded", func(t *testing.T) {
		var auth string
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		_, err := gw.ListDoctors(context.Background(), "tok-123")
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", auth)
	})
}

func TestAPIErrorClassification(t *testing.T) {
	respond := func(status int, body string) *APIError {
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
		defer srv.Close()

		_, err := gw.BookAppointment(context.Background(), "tok", models.BookingRequest{})
		require.Error(t, err)
		apiErr, ok := IsGatewayError(err)
		require.True(t, ok, "expected an APIError, got %v", err)
		return apiErr
	}

	t.Run("nested gateway payload in details is unwrapped", func(t *testing.T) {
		apiErr := respond(http.StatusPaymentRequired,
			`{"error":"Payment failed","details":"{\"error\":\"Card declined by issuer\"}"}`)

		assert.Equal(t, "Payment failed", apiErr.Message)
		assert.Equal(t, "Card declined by issuer", apiErr.Details)
		assert.Equal(t, KindDeclined, apiErr.Kind)
		assert.Equal(t, "Payment declined. Please check your card details.", apiErr.UserMessage())
	})

	t.Run("plain details string is kept verbatim", func(t *testing.T) {
		apiErr := respond(http.StatusBadRequest,
			`{"error":"Invalid slot","details":"slot is in the past"}`)

		assert.Equal(t, KindGeneric, apiErr.Kind)
		assert.Equal(t, "slot is in the past", apiErr.UserMessage())
	})

	t.Run("401 maps to the auth message", func(t *testing.T) {
		apiErr := respond(http.StatusUnauthorized, `{"error":"token expired"}`)
		assert.Equal(t, KindAuth, apiErr.Kind)
		assert.Contains(t, apiErr.UserMessage(), "authentication failed")
	})

	t.Run("5xx maps to service unavailable", func(t *testing.T) {
		apiErr := respond(http.StatusBadGateway, `upstream timeout`)
		assert.Equal(t, KindUnavailable, apiErr.Kind)
		assert.Contains(t, apiErr.UserMessage(), "temporarily unavailable")
	})

	t.Run("non-JSON body falls back to the status line", func(t *testing.T) {
		apiErr := respond(http.StatusBadRequest, `<html>nope</html>`)
		assert.Contains(t, apiErr.Message, "status 400")
	})
}

func TestBookAppointment(t *testing.T) {
	book := func(t *testing.T, body string) *models.ReservationState {
		t.Helper()
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/appointments/book/", r.URL.Path)
			w.Write([]byte(body))
		}))
		defer srv.Close()

		state, err := gw.BookAppointment(context.Background(), "tok", models.BookingRequest{
			DoctorID: "7", AppointmentDate: "2026-09-01T09:00:00Z", PaymentMethod: "PayMaya",
		})
		require.NoError(t, err)
		return state
	}

	t.Run("numeric ids and epoch-millis expiry", func(t *testing.T) {
		state := book(t, `{"appointment_request_id":42,"payment_id":77,
			"checkout_url":"https://pay.example/77","reservation_expires_at":1756713600000}`)

		assert.Equal(t, "42", state.AppointmentRequestID)
		assert.Equal(t, "77", state.PaymentID)
		assert.Equal(t, "https://pay.example/77", state.CheckoutURL)
		assert.Equal(t, time.UnixMilli(1756713600000).UTC(), state.ReservationExpiresAt.UTC())
	})

	t.Run("string ids and ISO expiry", func(t *testing.T) {
		state := book(t, `{"appointment_request_id":"req-9","payment_id":"pay-9",
			"checkout_url":"","reservation_expires_at":"2026-09-01T09:02:00Z"}`)

		assert.Equal(t, "req-9", state.AppointmentRequestID)
		assert.Equal(t, "pay-9", state.PaymentID)
		want := time.Date(2026, 9, 1, 9, 2, 0, 0, time.UTC)
		assert.True(t, state.ReservationExpiresAt.Equal(want))
	})

	t.Run("mixed id typing within one payload", func(t *testing.T) {
		state := book(t, `{"appointment_request_id":42,"payment_id":"pay_1NIrx2",
			"reservation_expires_at":"2026-09-01T09:02:00Z"}`)

		assert.Equal(t, "42", state.AppointmentRequestID)
		assert.Equal(t, "pay_1NIrx2", state.PaymentID)
	})

	t.Run("unparseable expiry is tolerated as zero", func(t *testing.T) {
		state := book(t, `{"appointment_request_id":"req-9","reservation_expires_at":{"odd":true}}`)
		assert.True(t, state.ReservationExpiresAt.IsZero())
	})

	t.Run("missing appointment_request_id is an error", func(t *testing.T) {
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"checkout_url":"https://pay.example/x"}`))
		}))
		defer srv.Close()

		_, err := gw.BookAppointment(context.Background(), "tok", models.BookingRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "appointment_request_id")
	})
}

func TestPaymentStatus(t *testing.T) {
	fetch := func(t *testing.T, body string) (models.PaymentStatus, string) {
		t.Helper()
		gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/payments/status/pay-1/", r.URL.Path)
			w.Write([]byte(body))
		}))
		defer srv.Close()

		status, raw, err := gw.PaymentStatus(context.Background(), "tok", "pay-1")
		require.NoError(t, err)
		return status, raw
	}

	t.Run("payment_status field wins", func(t *testing.T) {
		status, raw := fetch(t, `{"payment_status":"Completed","status":"pending"}`)
		assert.Equal(t, models.StatusPaid, status)
		assert.Equal(t, "Completed", raw)
	})

	t.Run("falls back to status", func(t *testing.T) {
		status, _ := fetch(t, `{"status":"failed"}`)
		assert.Equal(t, models.StatusFailed, status)
	})

	t.Run("vocabulary drift maps to unknown", func(t *testing.T) {
		status, raw := fetch(t, `{"payment_status":"awaiting_settlement"}`)
		assert.Equal(t, models.StatusUnknown, status)
		assert.Equal(t, "awaiting_settlement", raw)
	})
}

func TestUploadGCashProof(t *testing.T) {
	var field, filename, content string
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments/req-1/upload-gcash/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for name, headers := range r.MultipartForm.File {
			field = name
			filename = headers[0].Filename
			f, err := headers[0].Open()
			require.NoError(t, err)
			defer f.Close()
			var sb strings.Builder
			_, err = io.Copy(&sb, f)
			require.NoError(t, err)
			content = sb.String()
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := gw.UploadGCashProof(context.Background(), "tok", "req-1", "proof.jpg",
		strings.NewReader("receipt-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "gcash_proof", field)
	assert.Equal(t, "proof.jpg", filename)
	assert.Equal(t, "receipt-bytes", content)
}

func TestCancelAppointmentRequest(t *testing.T) {
	var path, method string
	gw, srv := newTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, gw.CancelAppointmentRequest(context.Background(), "tok", "req-1"))
	assert.Equal(t, "/appointment-requests/req-1/cancel/", path)
	assert.Equal(t, http.MethodPost, method)
}
